package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/loadsense/internal/mail"
	"github.com/yourorg/loadsense/internal/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fakeMailer records dispatched reset mails instead of talking SMTP.
type fakeMailer struct {
	err    error
	sentTo []string
	tokens []string
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, tok string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, to)
	f.tokens = append(f.tokens, tok)
	return nil
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newAuthApp wires an AuthHandler onto a bare Fiber app, with sqlmock
// behind it and the fake mailer in front of SMTP.
func newAuthApp(t *testing.T, mailer mail.Mailer) (*fiber.App, sqlmock.Sqlmock, *token.Issuer) {
	t.Helper()
	db, mock := newMockDB(t)
	issuer := token.NewIssuer(testSecret, time.Hour)
	h := NewAuthHandler(db, issuer, mailer)

	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/admin/register", h.AdminRegister)
	app.Post("/admin/login", h.AdminLogin)
	app.Post("/forgot_password", h.ForgotPassword)
	app.Post("/reset_password/:token", h.ResetPassword)
	return app, mock, issuer
}

func newEntryApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	h := NewEntryHandler(db, nil)

	app := fiber.New()
	app.Post("/calculate", h.Calculate)
	app.Get("/overview", h.Overview)
	app.Get("/history", h.History)
	app.Get("/analytics", h.Analytics)
	return app, mock
}

func newAdminApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	h := NewAdminHandler(db)

	app := fiber.New()
	app.Get("/admin/overview", h.Overview)
	return app, mock
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}
