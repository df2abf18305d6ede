package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiredTokenDeleter is implemented by repository.Tokens
type ExpiredTokenDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenCleanup periodically removes auth tokens that are past their expiry.
// The returned cron is already running; call Stop on shutdown.
func TokenCleanup(schedule string, tokens ExpiredTokenDeleter) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() { cleanupTokens(tokens) })
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q, %w", schedule, err)
	}

	zap.L().Debug("Token cleanup attached", zap.String("schedule", schedule))

	c.Start()
	return c, nil
}

func cleanupTokens(tokens ExpiredTokenDeleter) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := tokens.DeleteExpired(ctx)
	if err != nil {
		zap.L().Error("Failed to cleanup expired tokens", zap.Error(err))
		return
	}

	if n > 0 {
		zap.L().Debug("Cleaned up expired tokens", zap.Int64("count", n))
	}
}
