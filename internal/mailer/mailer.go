package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"resumebuilder/internal/config"
	"resumebuilder/internal/database"
)

// Dialer is the transport surface, satisfied by gomail.Dialer and test fakes.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers transactional email over SMTP. Every attempt, successful
// or not, is recorded as an EmailNotification row. Delivery failures are
// returned to the caller, which per policy logs and continues — a failed
// email never fails the action that triggered it.
type Mailer struct {
	db      *gorm.DB
	dialer  Dialer
	sender  string
	logger  *slog.Logger
	enabled bool
}

// New builds a Mailer. With no mail host configured the mailer is disabled
// and Send becomes a no-op.
func New(cfg config.MailConfig, db *gorm.DB, logger *slog.Logger) *Mailer {
	m := &Mailer{
		db:      db,
		sender:  cfg.Sender,
		logger:  logger,
		enabled: cfg.Enabled(),
	}
	if m.enabled {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// NewWithDialer injects a transport directly; used by tests.
func NewWithDialer(dialer Dialer, sender string, db *gorm.DB, logger *slog.Logger) *Mailer {
	return &Mailer{
		db:      db,
		dialer:  dialer,
		sender:  sender,
		logger:  logger,
		enabled: true,
	}
}

// Send attempts delivery and records the attempt.
func (m *Mailer) Send(ctx context.Context, userID uint, to, subject, htmlBody string) error {
	if !m.enabled {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	sendErr := m.dialer.DialAndSend(msg)

	notification := database.EmailNotification{
		UserID:  userID,
		Subject: subject,
		Body:    htmlBody,
		IsSent:  sendErr == nil,
	}
	if err := m.db.WithContext(ctx).Create(&notification).Error; err != nil {
		m.logger.Error("record email notification failed", slog.Any("error", err))
	}

	if sendErr != nil {
		return fmt.Errorf("send email %q: %w", subject, sendErr)
	}
	return nil
}

// SendWelcome greets a freshly registered user.
func (m *Mailer) SendWelcome(ctx context.Context, user database.User) error {
	subject := "Welcome to Resume Builder"
	body := fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Thank you for creating an account with Resume Builder.</p>
<p>Start building your professional resume today and download it as PDF.</p>
<ul>
  <li>Multiple professional templates</li>
  <li>Easy-to-use form interface</li>
  <li>PDF export capability</li>
  <li>Manage multiple resumes</li>
</ul>
<p>Happy resume building!</p>`, user.Username)
	return m.Send(ctx, user.ID, user.Email, subject, body)
}

// SendResumeCreated confirms a new resume.
func (m *Mailer) SendResumeCreated(ctx context.Context, user database.User, title string) error {
	subject := fmt.Sprintf("Resume '%s' Created Successfully", title)
	body := fmt.Sprintf(`<h2>Resume Created!</h2>
<p>Your resume "<strong>%s</strong>" has been created successfully.</p>
<p>Visit your dashboard to continue editing.</p>`, title)
	return m.Send(ctx, user.ID, user.Email, subject, body)
}

// SendResumeDownloaded confirms a PDF download.
func (m *Mailer) SendResumeDownloaded(ctx context.Context, user database.User, title string) error {
	subject := fmt.Sprintf("Resume '%s' Downloaded", title)
	body := fmt.Sprintf(`<h2>Download Confirmation</h2>
<p>Your resume "<strong>%s</strong>" has been downloaded successfully.</p>
<p>Thank you for using Resume Builder!</p>`, title)
	return m.Send(ctx, user.ID, user.Email, subject, body)
}
