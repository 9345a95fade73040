package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumebuilder/internal/config"
	"resumebuilder/internal/database"
)

type fakeDialer struct {
	err  error
	sent []*gomail.Message
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.EmailNotification{}))
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSend_RecordsSuccessfulAttempt(t *testing.T) {
	db := newTestDB(t)
	dialer := &fakeDialer{}
	m := NewWithDialer(dialer, "noreply@example.com", db, discardLogger())

	err := m.Send(context.Background(), 7, "jane@example.com", "Hello", "<p>Hi</p>")
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	var n database.EmailNotification
	require.NoError(t, db.First(&n).Error)
	assert.Equal(t, uint(7), n.UserID)
	assert.Equal(t, "Hello", n.Subject)
	assert.True(t, n.IsSent)
}

func TestSend_RecordsFailedAttempt(t *testing.T) {
	db := newTestDB(t)
	dialer := &fakeDialer{err: errors.New("connection refused")}
	m := NewWithDialer(dialer, "noreply@example.com", db, discardLogger())

	err := m.Send(context.Background(), 7, "jane@example.com", "Hello", "<p>Hi</p>")
	require.Error(t, err)

	// The attempt is on record even though delivery failed.
	var n database.EmailNotification
	require.NoError(t, db.First(&n).Error)
	assert.False(t, n.IsSent)
}

func TestSend_DisabledMailerIsNoOp(t *testing.T) {
	db := newTestDB(t)
	m := New(config.MailConfig{}, db, discardLogger())

	require.NoError(t, m.Send(context.Background(), 7, "jane@example.com", "Hello", "<p>Hi</p>"))

	var count int64
	require.NoError(t, db.Model(&database.EmailNotification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendWelcome_UsesUserAddress(t *testing.T) {
	db := newTestDB(t)
	dialer := &fakeDialer{}
	m := NewWithDialer(dialer, "noreply@example.com", db, discardLogger())

	user := database.User{Username: "jane", Email: "jane@example.com"}
	user.ID = 3
	require.NoError(t, m.SendWelcome(context.Background(), user))

	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, dialer.sent[0].GetHeader("To"))

	var n database.EmailNotification
	require.NoError(t, db.First(&n).Error)
	assert.Equal(t, "Welcome to Resume Builder", n.Subject)
	assert.Contains(t, n.Body, "jane")
}
