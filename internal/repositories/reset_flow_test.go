package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemAndUpdatePassword_CommitsBoth(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE reset_tokens").
		WithArgs("acme", "abc").
		WillReturnRows(resetTokenRow(mock, models.ResetToken{ID: "t1", Tenant: "acme", Email: "a@x.com", OpaqueID: "abc", Used: true}))
	mock.ExpectExec("UPDATE users").
		WithArgs("acme", "a@x.com", "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	flow := NewResetFlow(mock)
	token, err := flow.RedeemAndUpdatePassword(context.Background(), "acme", "abc",
		func(context.Context) (string, error) { return "newhash", nil })

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", token.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemAndUpdatePassword_SpentTokenRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE reset_tokens").
		WithArgs("acme", "abc").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	flow := NewResetFlow(mock)
	hashCalled := false
	_, err = flow.RedeemAndUpdatePassword(context.Background(), "acme", "abc",
		func(context.Context) (string, error) { hashCalled = true; return "x", nil })

	assert.ErrorIs(t, err, models.ErrInvalidToken)
	assert.False(t, hashCalled, "invalid token must not cost a hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemAndUpdatePassword_HashFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE reset_tokens").
		WithArgs("acme", "abc").
		WillReturnRows(resetTokenRow(mock, models.ResetToken{ID: "t1", Tenant: "acme", Email: "a@x.com", OpaqueID: "abc", Used: true}))
	mock.ExpectRollback()

	flow := NewResetFlow(mock)
	_, err = flow.RedeemAndUpdatePassword(context.Background(), "acme", "abc",
		func(context.Context) (string, error) { return "", context.Canceled })

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
