// Package mailer реализует отправку писем через SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"strings"
)

const notificationTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">{{.Title}}</h2>
  <p>{{.Message}}</p>
  <hr style="margin: 20px 0; border: none; border-top: 1px solid #eee;">
  <p style="color: #666; font-size: 12px;">
    You received this notification from TenderChain.
    To manage your notification preferences, visit your account settings.
  </p>
</div>`

const resetPasswordTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Reset Your Password</h2>
  <p>You have requested to reset your password for your TenderChain account.</p>
  <p>Click the link below to reset your password:</p>
  <p style="word-break: break-all;"><a href="{{.ResetURL}}" style="color: #2563eb;">{{.ResetURL}}</a></p>
  <p style="color: #666; margin-top: 30px;">
    This link will expire in 1 hour for security reasons.<br>
    If you didn't request this password reset, please ignore this email.
  </p>
</div>`

// SMTPMailer отправляет письма через SMTP-сервер.
type SMTPMailer struct {
	host     string
	port     string
	user     string
	pass     string
	from     string
	fromName string
	baseURL  string
}

// NewSMTPMailer создаёт новый экземпляр SMTPMailer.
func NewSMTPMailer(host, port, user, pass, from, fromName, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
		baseURL:  baseURL,
	}
}

// SendNotification отправляет письмо-уведомление с заголовком и текстом.
func (m *SMTPMailer) SendNotification(to, title, message string) error {
	body, err := render(notificationTemplate, map[string]string{
		"Title":   title,
		"Message": message,
	})
	if err != nil {
		return err
	}
	return m.send(to, title, body)
}

// SendPasswordReset отправляет письмо со ссылкой для сброса пароля.
func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password/confirm?token=%s", m.baseURL, url.QueryEscape(token))
	body, err := render(resetPasswordTemplate, map[string]string{
		"ResetURL": resetURL,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Reset Your Password - TenderChain", body)
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", m.fromName, m.from)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func render(tmpl string, data map[string]string) (string, error) {
	t, err := template.New("mail").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
