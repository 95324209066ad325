package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResetRepo(t *testing.T) (*ResetTokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewResetTokenRepository(mock), mock
}

func resetTokenRow(mock pgxmock.PgxPoolIface, tok models.ResetToken) *pgxmock.Rows {
	return mock.NewRows(resetTokenColumns).AddRow(
		tok.ID, tok.Tenant, tok.Email, tok.OpaqueID, tok.Used, tok.ExpiresAt,
		tok.IPRequest, tok.UserAgent, tok.Country, tok.CreatedAt, tok.UpdatedAt,
	)
}

func TestRedeem_ConsumesLiveToken(t *testing.T) {
	repo, mock := newResetRepo(t)

	consumed := models.ResetToken{ID: "t1", Tenant: "acme", Email: "a@x.com", OpaqueID: "abc", Used: true}
	mock.ExpectQuery("UPDATE reset_tokens").
		WithArgs("acme", "abc").
		WillReturnRows(resetTokenRow(mock, consumed))

	got, err := repo.Redeem(context.Background(), "acme", "abc")
	require.NoError(t, err)
	assert.True(t, got.Used)
}

func TestRedeem_SpentOrExpiredTokenMisses(t *testing.T) {
	repo, mock := newResetRepo(t)

	// The CAS predicate filters out used and expired tokens, so both cases
	// surface as the same miss.
	mock.ExpectQuery("UPDATE reset_tokens").
		WithArgs("acme", "abc").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Redeem(context.Background(), "acme", "abc")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindActiveByEmail_None(t *testing.T) {
	repo, mock := newResetRepo(t)

	mock.ExpectQuery("SELECT .+ FROM reset_tokens").
		WithArgs("acme", "a@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindActiveByEmail(context.Background(), "acme", "A@x.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExtend_KeepsOpaqueID(t *testing.T) {
	repo, mock := newResetRepo(t)

	newExpiry := time.Now().Add(time.Hour)
	extended := models.ResetToken{ID: "t1", Tenant: "acme", OpaqueID: "abc", ExpiresAt: newExpiry}
	mock.ExpectQuery("UPDATE reset_tokens").
		WithArgs("acme", "t1", newExpiry).
		WillReturnRows(resetTokenRow(mock, extended))

	got, err := repo.Extend(context.Background(), "acme", "t1", newExpiry)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.OpaqueID)
	assert.WithinDuration(t, newExpiry, got.ExpiresAt, time.Second)
}

func TestDeleteExpired(t *testing.T) {
	repo, mock := newResetRepo(t)

	mock.ExpectExec("DELETE FROM reset_tokens").
		WithArgs(int64(86400)).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := repo.DeleteExpired(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
