package repository

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/security"
	"bitwise74/recipe-api/pkg/util"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const tokenKeySize = 20

type Tokens struct {
	DB     *gorm.DB
	Issuer *security.TokenIssuer
}

func NewTokens(db *gorm.DB, issuer *security.TokenIssuer) *Tokens {
	return &Tokens{DB: db, Issuer: issuer}
}

// Issue creates a token for userID, replacing the previous one
func (t *Tokens) Issue(ctx context.Context, userID string) (string, error) {
	key, err := util.GenerateToken(tokenKeySize)
	if err != nil {
		return "", fmt.Errorf("failed to generate token key, %w", err)
	}

	signed, exp, err := t.Issuer.Sign(userID, key)
	if err != nil {
		return "", err
	}

	err = t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.AuthToken{}).Error; err != nil {
			return err
		}

		return tx.Create(&model.AuthToken{
			Key:       key,
			UserID:    userID,
			ExpiresAt: exp,
		}).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token, %w", err)
	}

	return signed, nil
}

// Resolve returns the active user the token was issued to. The token must be
// correctly signed, unexpired and still be the user's current token.
func (t *Tokens) Resolve(ctx context.Context, raw string) (*model.User, error) {
	claims, err := t.Issuer.Parse(raw)
	if err != nil {
		return nil, err
	}

	var token model.AuthToken

	err = t.DB.WithContext(ctx).
		Where(&model.AuthToken{Key: claims.ID, UserID: claims.Subject}).
		First(&token).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}

		return nil, fmt.Errorf("failed to look up token, %w", err)
	}

	var user model.User

	err = t.DB.WithContext(ctx).
		Where("id = ?", token.UserID).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to fetch token owner, %w", err)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &user, nil
}

// DeleteExpired removes tokens that can no longer authenticate
func (t *Tokens) DeleteExpired(ctx context.Context) (int64, error) {
	r := t.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.AuthToken{})
	if r.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tokens, %w", r.Error)
	}

	return r.RowsAffected, nil
}
