package accounts

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/fishnet/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SpendTokens debits amount from userID and returns the new balance. A
// balance that cannot cover amount yields *InsufficientTokensError and is
// left unchanged.
func (d *Directory) SpendTokens(ctx context.Context, userID primitive.ObjectID, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, invalid("Amount must be a positive number")
	}

	balance, err := d.users.SpendTokens(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, userstore.ErrInsufficientTokens) {
			return balance, &InsufficientTokensError{Current: balance, Required: amount}
		}
		return 0, mapStoreErr(err)
	}

	d.log.Info("tokens spent",
		zap.String("user_id", userID.Hex()),
		zap.Int64("amount", amount),
		zap.Int64("balance", balance),
		zap.String("reason", reason))
	return balance, nil
}

// EarnTokens credits amount to userID and returns the new balance.
func (d *Directory) EarnTokens(ctx context.Context, userID primitive.ObjectID, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, invalid("Amount must be a positive number")
	}

	balance, err := d.users.EarnTokens(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("earn tokens: %w", mapStoreErr(err))
	}

	d.log.Info("tokens earned",
		zap.String("user_id", userID.Hex()),
		zap.Int64("amount", amount),
		zap.Int64("balance", balance),
		zap.String("reason", reason))
	return balance, nil
}
