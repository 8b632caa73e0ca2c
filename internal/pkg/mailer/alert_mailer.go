package mailer

import (
	"fmt"
	"html"
	"time"

	"fiberops-assistant-be/pkg/events"

	"gopkg.in/gomail.v2"
)

type IAlertMailer interface {
	SendRefreshFailure(p events.RefreshPayload) error
	SendRecovered(p events.RefreshPayload, downSince time.Time) error
}

// Sender is the part of *gomail.Dialer the mailer uses.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type alertMailer struct {
	sender      Sender
	senderEmail string
	senderName  string
	to          string
}

// NewAlertMailer returns nil when SMTP or the alert recipient is not configured.
func NewAlertMailer(host string, port int, username, password, senderName, to string) IAlertMailer {
	if host == "" || to == "" {
		return nil
	}
	return newAlertMailer(gomail.NewDialer(host, port, username, password), username, senderName, to)
}

func newAlertMailer(sender Sender, senderEmail, senderName, to string) *alertMailer {
	return &alertMailer{sender: sender, senderEmail: senderEmail, senderName: senderName, to: to}
}

func (s *alertMailer) SendRefreshFailure(p events.RefreshPayload) error {
	subject := "Project data refresh failing"
	if p.Stale {
		subject = "Project data is stale"
	}

	detail := "No project data has been loaded; the assistant is answering without live data."
	if p.Stale && !p.RefreshedAt.IsZero() {
		detail = fmt.Sprintf("The assistant is still serving data from %s (version %d).",
			p.RefreshedAt.Format(time.RFC1123), p.Version)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>The last refresh failed at %s:</p>
			<pre style="background: #f4f4f4; padding: 10px;">%s</pre>
			<p>%s</p>
			<p>Check that the project roster link is still shared and reachable.</p>
		</div>
	`, subject, p.OccurredAt.Format(time.RFC1123), html.EscapeString(p.Error), detail)

	return s.send(subject, body)
}

func (s *alertMailer) SendRecovered(p events.RefreshPayload, downSince time.Time) error {
	subject := "Project data refresh recovered"
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>Refreshes are succeeding again after %s.</p>
			<p>%d projects loaded, %d locate tickets.</p>
		</div>
	`, subject, p.OccurredAt.Sub(downSince).Round(time.Second), p.ProjectCount, p.TicketCount)

	return s.send(subject, body)
}

func (s *alertMailer) send(subject, body string) error {
	m := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q alert to %s: %w", subject, s.to, err)
	}
	return nil
}
