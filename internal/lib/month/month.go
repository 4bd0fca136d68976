// Package month содержит вспомогательные функции для работы с календарными
// окнами: токен года-месяца для отметки оплаты подписки, проверка попадания
// даты в месяц выписки и границы суточного окна подачи заявок.
package month

import (
	"fmt"
	"time"
)

// Token возвращает токен года-месяца в формате "2006-01".
// Используется как отметка оплаченного месяца подписки.
func Token(t time.Time) string {
	return t.Format("2006-01")
}

// InMonth сообщает, попадает ли дата в заданные год и месяц.
func InMonth(date time.Time, year, monthNum int) bool {
	return date.Year() == year && int(date.Month()) == monthNum
}

// DayBucket возвращает номер дня месяца как токен суточного окна подачи заявок.
// Окна предыдущих суток в текущее окно не входят.
func DayBucket(t time.Time) string {
	return fmt.Sprintf("%02d", t.Day())
}

// UntilEndOfDay возвращает длительность до конца текущих суток.
// Используется как TTL ключа заявки: заявка живет до конца своего окна.
func UntilEndOfDay(t time.Time) time.Duration {
	endOfDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
	return endOfDay.Sub(t)
}

// FirstOfMonth сообщает, приходится ли момент на первый день месяца.
// Планировщик сбрасывает счётчики заявок только в этот день.
func FirstOfMonth(t time.Time) bool {
	return t.Day() == 1
}
