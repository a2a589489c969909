// Package mail implements the notification.Mailer interface over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
	"github.com/arolitec/taskboard-api/internal/config"
	"github.com/arolitec/taskboard-api/internal/notification"
)

// SMTPMailer sends notification emails through an SMTP relay.
// A new SMTP session is established per message; the tracker's email
// volume is far too low to justify connection pooling.
type SMTPMailer struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// Ensure SMTPMailer implements the notification.Mailer interface
var _ notification.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer from the SMTP transport configuration.
// Credentials are optional; test relays like Mailtrap accept
// unauthenticated sessions.
func NewSMTPMailer(cfg config.MailConfig, log *slog.Logger) (*SMTPMailer, error) {
	if log == nil {
		log = slog.Default()
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		logger: log.With(slog.String("component", "mailer")),
	}, nil
}

// SendAssignment implements notification.Mailer.SendAssignment.
func (m *SMTPMailer) SendAssignment(ctx context.Context, email, fullName, title, description string, dueDate *time.Time) error {
	if description == "" {
		description = "No description"
	}

	dueDateLine := ""
	if dueDate != nil {
		dueDateLine = fmt.Sprintf("<p><strong>Due date:</strong> %s</p>", dueDate.Format("January 2, 2006"))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #FF6B35;">New task assigned</h2>
			<p>Hello <strong>%s</strong>,</p>
			<p>A new task has been assigned to you:</p>
			<div style="background-color: #F8FAFC; padding: 20px; border-radius: 8px; margin: 20px 0;">
				<h3 style="color: #1E293B; margin-top: 0;">%s</h3>
				<p style="color: #64748B;">%s</p>
				%s
			</div>
			<p>Log in to the application to see the details.</p>
		</div>
	`, fullName, title, description, dueDateLine)

	return m.send(ctx, email, fmt.Sprintf("New task assigned: %s", title), body)
}

// SendOverdue implements notification.Mailer.SendOverdue.
func (m *SMTPMailer) SendOverdue(ctx context.Context, email, fullName, title string, dueDate time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #EF4444;">Task overdue</h2>
			<p>Hello <strong>%s</strong>,</p>
			<p>The following task has passed its due date:</p>
			<div style="background-color: #FEF2F2; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #EF4444;">
				<h3 style="color: #1E293B; margin-top: 0;">%s</h3>
				<p style="color: #EF4444;"><strong>Due date passed:</strong> %s</p>
			</div>
			<p>Please update the status of this task.</p>
		</div>
	`, fullName, title, dueDate.Format("January 2, 2006"))

	return m.send(ctx, email, fmt.Sprintf("Task overdue: %s", title), body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
