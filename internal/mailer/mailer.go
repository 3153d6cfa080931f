// Package mailer delivers reports over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dailydigest/internal/env"

	"github.com/wneessen/go-mail"
)

var ErrNotConfigured = errors.New("smtp host is not configured")

const DefaultTimeout = 10 * time.Second

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// ConfigFromEnv reads the SMTP settings loaded by env.Init.
func ConfigFromEnv() Config {
	return Config{
		Host:     env.SMTP_HOST,
		Port:     env.SMTP_PORT,
		Username: env.SMTP_USERNAME,
		Password: env.SMTP_PASSWORD,
		From:     env.MAIL_FROM,
		Timeout:  DefaultTimeout,
	}
}

// Message is a multipart mail with a text body and an HTML alternative.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender is the part of *mail.Client used to deliver messages.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Mailer struct {
	cfg       Config
	newSender func(Config) (Sender, error)
}

func New(cfg Config) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Mailer{cfg: cfg, newSender: dial}
}

// NewWithSender builds a mailer that hands every message to s.
func NewWithSender(cfg Config, s Sender) *Mailer {
	m := New(cfg)
	m.newSender = func(Config) (Sender, error) { return s, nil }
	return m
}

func dial(cfg Config) (Sender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrNotConfigured
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	return mail.NewClient(cfg.Host, opts...)
}

// Build assembles the wire message without sending it.
func (m *Mailer) Build(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.From, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	return out, nil
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	built, err := m.Build(msg)
	if err != nil {
		return err
	}

	sender, err := m.newSender(m.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if err := sender.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("smtp delivery to %s: %w", msg.To, err)
	}
	return nil
}

func ReportSubject(date time.Time) string {
	return "📊 Daily Work Report — " + date.Format("02 Jan 2006")
}

// TestMessage is the mail sent to confirm a user's delivery settings.
func TestMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "🧪 Daily Work Report — Test Email",
		Text: "Hello!\n\n" +
			"This is a test email from the daily digest service. Your email configuration is working correctly.\n\n" +
			"Your daily work reports will be delivered to this inbox at your configured time.\n",
		HTML: `<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; color: #333;">
	<h2>🧪 Daily Work Report — Test Email</h2>
	<p>Hello!</p>
	<p>This is a test email from the daily digest service. Your email configuration is working correctly.</p>
	<p>Your daily work reports will be delivered to this inbox at your configured time.</p>
</body>
</html>`,
	}
}
