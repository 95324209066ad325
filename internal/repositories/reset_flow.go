package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/leaguehq/leaguehq-auth/internal/database"
	"github.com/leaguehq/leaguehq-auth/internal/models"
)

// ResetFlow couples token redemption and the password write in a single
// transaction. The token is consumed first, so a crash between the two
// statements rolls both back and never leaves a replayable token behind a
// changed password.
type ResetFlow struct {
	db database.TxBeginner
}

func NewResetFlow(db database.TxBeginner) *ResetFlow {
	return &ResetFlow{db: db}
}

// RedeemAndUpdatePassword consumes the token, derives the new hash via
// hashPassword, and stores it for the token's email. Hashing runs after the
// CAS so an invalid token never costs a KDF round. An unknown, spent, or
// expired token reports InvalidToken.
func (f *ResetFlow) RedeemAndUpdatePassword(ctx context.Context, tenant, opaqueID string, hashPassword func(context.Context) (string, error)) (models.ResetToken, error) {
	var token models.ResetToken

	err := database.RunInTx(ctx, f.db, func(tx pgx.Tx) error {
		redeemed, err := NewResetTokenRepository(tx).Redeem(ctx, tenant, opaqueID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.ErrInvalidToken
			}
			return err
		}

		hash, err := hashPassword(ctx)
		if err != nil {
			return err
		}

		if err := NewUserRepository(tx).UpdatePassword(ctx, tenant, redeemed.Email, hash); err != nil {
			return err
		}

		token = redeemed
		return nil
	})
	if err != nil {
		return models.ResetToken{}, err
	}
	return token, nil
}
