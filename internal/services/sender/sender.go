// Package services содержит отправку почтовых уведомлений: письма о
// проведённых и отклонённых заявках на пополнение и прощальные письма
// удалённым аккаунтам.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/sixnumber/internal/lib/sl"
	"github.com/example/sixnumber/internal/lib/smtp"
	"github.com/example/sixnumber/internal/models"
)

// SenderService читает события из очередей уведомлений и отправляет письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendChargeNotification отправляет письмо о результате обработки заявки
// на пополнение. Тело сообщения — models.ChargeEvent в JSON.
func (s *SenderService) SendChargeNotification(body []byte) error {
	const op = "services.sender.SendChargeNotification"

	var event models.ChargeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Заявка на пополнение отклонена"
	text := fmt.Sprintf("Здравствуйте!\n\nВаша заявка на пополнение (%s, %d) была отклонена администратором.", event.Msg, event.Cash)
	if event.Settled {
		subject = "Баланс пополнен"
		text = fmt.Sprintf("Здравствуйте!\n\nВаша заявка на пополнение (%s, %d) проведена, сумма зачислена на баланс.", event.Msg, event.Cash)
	}

	if err := s.send(event.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("charge notification sent",
		slog.String("user_uid", event.UserUID),
		slog.Bool("settled", event.Settled))
	return nil
}

// SendPurgeNotification отправляет прощальное письмо на адрес аккаунта,
// удалённого по истечении срока хранения. Тело сообщения —
// models.PurgeEvent в JSON.
func (s *SenderService) SendPurgeNotification(body []byte) error {
	const op = "services.sender.SendPurgeNotification"

	var event models.PurgeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Аккаунт удалён"
	text := "Здравствуйте!\n\nСрок хранения вашего аккаунта истёк, аккаунт и связанные данные удалены."

	if err := s.send(event.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("purge notification sent")
	return nil
}

// send собирает письмо и отправляет его через SMTP транспорт.
func (s *SenderService) send(to, subject, text string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.transport.GetSMTPUser()),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		text,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.log.Debug("failed to close smtp client", sl.Err(closeErr))
		}
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		return fmt.Errorf("failed to set mail sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close message body: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit smtp client: %w", err)
	}
	return nil
}
