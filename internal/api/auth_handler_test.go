package api

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumebuilder/internal/auth"
	"resumebuilder/internal/database"
	"resumebuilder/internal/mailer"
)

func newAuthService(t *testing.T) *auth.AuthService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})

	svc, err := auth.NewAuthService(privatePEM, publicPEM, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return svc
}

type authFixture struct {
	db      *gorm.DB
	handler *AuthHandler
	dialer  *fakeDialer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	dialer := &fakeDialer{}
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := mailer.NewWithDialer(dialer, "noreply@example.com", db, discard)

	return &authFixture{
		db:      db,
		handler: NewAuthHandler(db, newAuthService(t), m, discard),
		dialer:  dialer,
	}
}

func jsonContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestRegister_CreatesUserAndSendsWelcome(t *testing.T) {
	f := newAuthFixture(t)

	c, w := jsonContext(`{"username":"jane","email":"jane@example.com","password":"hunter2hunter2"}`)
	f.handler.Register(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user database.User
	require.NoError(t, f.db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, "jane", user.Username)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	assert.Len(t, f.dialer.sent, 1)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	c, w := jsonContext(`{"username":"jane","email":"jane@example.com","password":"hunter2hunter2"}`)
	f.handler.Register(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = jsonContext(`{"username":"jane2","email":"jane@example.com","password":"hunter2hunter2"}`)
	f.handler.Register(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	f := newAuthFixture(t)

	c, w := jsonContext(`{"username":"jane","email":"jane@example.com","password":"short"}`)
	f.handler.Register(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Flow(t *testing.T) {
	f := newAuthFixture(t)

	c, w := jsonContext(`{"username":"jane","email":"jane@example.com","password":"hunter2hunter2"}`)
	f.handler.Register(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = jsonContext(`{"email":"jane@example.com","password":"hunter2hunter2"}`)
	f.handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeJSON(t, w)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	assert.Equal(t, "Bearer", body["token_type"])

	c, w = jsonContext(`{"email":"jane@example.com","password":"wrong-password"}`)
	f.handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = jsonContext(`{"email":"nobody@example.com","password":"hunter2hunter2"}`)
	f.handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_RotatesTokenPair(t *testing.T) {
	f := newAuthFixture(t)

	c, w := jsonContext(`{"username":"jane","email":"jane@example.com","password":"hunter2hunter2"}`)
	f.handler.Register(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = jsonContext(`{"email":"jane@example.com","password":"hunter2hunter2"}`)
	f.handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	login := decodeJSON(t, w)

	refreshToken, _ := login["refresh_token"].(string)
	require.NotEmpty(t, refreshToken)

	c, w = jsonContext(fmt.Sprintf(`{"refresh_token":%q}`, refreshToken))
	f.handler.Refresh(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refreshed := decodeJSON(t, w)
	assert.NotEmpty(t, refreshed["access_token"])

	// An access token must not pass as a refresh token.
	accessToken, _ := login["access_token"].(string)
	c, w = jsonContext(fmt.Sprintf(`{"refresh_token":%q}`, accessToken))
	f.handler.Refresh(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
