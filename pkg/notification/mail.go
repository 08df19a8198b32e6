package notification

import (
	"fmt"
	"net/smtp"

	"github.com/raykavin/bitwatcher/pkg/core"
	log "github.com/sirupsen/logrus"
)

// Mail sends signal notifications over SMTP
type Mail struct {
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string
	to                string
	from              string
}

// MailParams contains all parameters needed to initialize a Mail instance
type MailParams struct {
	SMTPServerPort    int
	SMTPServerAddress string
	To                string
	From              string
	Password          string
}

// NewMail creates a new Mail instance with the provided parameters
func NewMail(params MailParams) Mail {
	return Mail{
		from:              params.From,
		to:                params.To,
		smtpServerPort:    params.SMTPServerPort,
		smtpServerAddress: params.SMTPServerAddress,
		auth: smtp.PlainAuth(
			"",
			params.From,
			params.Password,
			params.SMTPServerAddress,
		),
	}
}

// send delivers a raw message to the configured recipient
func (m Mail) send(text string) {
	serverAddress := fmt.Sprintf("%s:%d", m.smtpServerAddress, m.smtpServerPort)

	message := fmt.Sprintf(
		`To: "User" <%s>
From: "BitWatcher" <%s>
%s`,
		m.to,
		m.from,
		text,
	)

	err := smtp.SendMail(
		serverAddress,
		m.auth,
		m.from,
		[]string{m.to},
		[]byte(message),
	)

	if err != nil {
		log.WithError(err).Error("notification/mail: failed to send email")
	}
}

// OnSignal implements Notifier
func (m Mail) OnSignal(signal *core.Signal) {
	title := fmt.Sprintf("📈 %s SIGNAL - %s (%s)", signal.Direction, signal.Pair, signal.Timeframe)
	body := fmt.Sprintf("Subject: %s\nScore %.2f, agreement %.0f%%", title, signal.Score, signal.Agreement*100)
	m.send(body)
}

// OnError implements Notifier
func (m Mail) OnError(err error) {
	m.send(fmt.Sprintf("Subject: 🛑 ERROR\nError %s", err))
}
