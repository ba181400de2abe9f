package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgotPasswordSendsThenPersists(t *testing.T) {
	mailer := &fakeMailer{}
	app, mock, _ := newAuthApp(t, mailer)

	mock.ExpectQuery("SELECT id FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE users SET reset_token").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/forgot_password", map[string]string{
		"email": "alice@example.com",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, mailer.sentTo, 1)
	assert.Equal(t, "alice@example.com", mailer.sentTo[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	mailer := &fakeMailer{}
	app, mock, _ := newAuthApp(t, mailer)

	mock.ExpectQuery("SELECT id FROM users").
		WillReturnError(sql.ErrNoRows)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/forgot_password", map[string]string{
		"email": "nobody@example.com",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, mailer.sentTo)
}

func TestForgotPasswordMailFailurePersistsNothing(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	app, mock, _ := newAuthApp(t, mailer)

	// Only the lookup is expected; a failed dispatch must not write
	// the token to the user row.
	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/forgot_password", map[string]string{
		"email": "alice@example.com",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordSuccess(t *testing.T) {
	app, mock, issuer := newAuthApp(t, &fakeMailer{})

	tok, expires, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, reset_token, reset_expires FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "reset_token", "reset_expires"}).
			AddRow(7, tok, expires))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/reset_password/"+tok, map[string]string{
		"password": "new-password",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password updated successfully", decodeBody(t, resp)["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordGarbageToken(t *testing.T) {
	app, mock, _ := newAuthApp(t, &fakeMailer{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/reset_password/not-a-token", map[string]string{
		"password": "new-password",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordSupersededToken(t *testing.T) {
	app, mock, issuer := newAuthApp(t, &fakeMailer{})

	oldTok, _, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)
	newTok, expires, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	// The row holds the newer token, so the older one must be refused
	// even though its own signature and expiry are fine.
	mock.ExpectQuery("SELECT id, reset_token, reset_expires FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "reset_token", "reset_expires"}).
			AddRow(7, newTok, expires))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/reset_password/"+oldTok, map[string]string{
		"password": "new-password",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetPasswordAlreadyUsed(t *testing.T) {
	app, mock, issuer := newAuthApp(t, &fakeMailer{})

	tok, _, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	// A consumed token leaves NULLs behind on the row.
	mock.ExpectQuery("SELECT id, reset_token, reset_expires FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "reset_token", "reset_expires"}).
			AddRow(7, nil, nil))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/reset_password/"+tok, map[string]string{
		"password": "new-password",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetPasswordStoredExpiryPassed(t *testing.T) {
	app, mock, issuer := newAuthApp(t, &fakeMailer{})

	tok, _, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, reset_token, reset_expires FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "reset_token", "reset_expires"}).
			AddRow(7, tok, time.Now().Add(-time.Minute)))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/reset_password/"+tok, map[string]string{
		"password": "new-password",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetPasswordMissingPassword(t *testing.T) {
	app, mock, issuer := newAuthApp(t, &fakeMailer{})

	tok, _, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/reset_password/"+tok, map[string]string{}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
