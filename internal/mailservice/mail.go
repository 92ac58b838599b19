package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

// NewMailer creates a mailer that renders embedded templates and sends them over SMTP.
func NewMailer(host string, port int, username, password, sender string, tp TemplateParser) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer: dialer,
		sender: sender,
		parser: tp,
	}
}

func (m *Mail) send(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	out := mail.NewMessage()
	out.SetHeader("From", m.sender)
	out.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		out.SetHeader("Reply-To", msg.ReplyTo)
	}
	out.SetHeader("Subject", subject.String())
	out.SetBody("text/plain", plainBody.String())
	out.AddAlternative("text/html", htmlBody.String())

	return m.dialer.DialAndSend(out)
}
