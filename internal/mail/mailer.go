package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(msg Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// ResetMessage builds the password-reset mail around the signed reset link.
func ResetMessage(to, url string) Message {
	html := fmt.Sprintf(`
	<div style="max-width: 700px; margin:auto; border: 10px solid #ddd; padding: 50px 20px; font-size: 110%%;">
	<h2 style="text-align: center; text-transform: uppercase;color: teal;">DEVAT SHOP</h2>
	<p>Someone requested a password reset for your account.
		Click the button below to choose a new password.
	</p>

	<a href="%s" style="background: crimson; text-decoration: none; color: white; padding: 10px 20px; margin: 10px 0; display: inline-block;">Reset Your Password</a>

	<p>If the button doesn't work for any reason, you can also click on the link below:</p>

	<div>%s</div>
	</div>
	`, url, url)

	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML:    html,
	}
}
