// Package keymutex реализует набор мьютексов, адресуемых строковым ключом.
// Используется для сериализации последовательностей "проверить-затем-записать"
// по одному аккаунту: проверка живой сессии при входе и снимок окна заявок
// при подаче пополнения должны выполняться атомарно в пределах аккаунта.
package keymutex

import "sync"

// KeyMutex выдает мьютекс по ключу. Нулевое значение готово к использованию.
type KeyMutex struct {
	mus sync.Map // key -> *sync.Mutex
}

// Lock блокирует мьютекс ключа key.
func (k *KeyMutex) Lock(key string) {
	mu, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

// Unlock разблокирует мьютекс ключа key.
// Вызов без предшествующего Lock для того же ключа приводит к панике.
func (k *KeyMutex) Unlock(key string) {
	mu, ok := k.mus.Load(key)
	if !ok {
		panic("keymutex: unlock of unknown key " + key)
	}
	mu.(*sync.Mutex).Unlock()
}
