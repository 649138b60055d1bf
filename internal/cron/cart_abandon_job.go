package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

const (
	cartAbandonJobName      = "cart-abandon"
	defaultCartAbandonAfter = 30 * 24 * time.Hour
)

// CartAbandonJobParams configure the idle cart sweep.
type CartAbandonJobParams struct {
	Logger     *logger.Logger
	Repository cartAbandonRepo
	Metrics    *metrics.JobMetrics
	IdleAfter  time.Duration
}

type cartAbandonRepo interface {
	CloseIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewCartAbandonJob closes open carts that have not been touched within IdleAfter.
func NewCartAbandonJob(params CartAbandonJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	idle := params.IdleAfter
	if idle <= 0 {
		idle = defaultCartAbandonAfter
	}
	return &cartAbandonJob{
		logg:    params.Logger,
		repo:    params.Repository,
		metrics: params.Metrics,
		idle:    idle,
		now:     time.Now,
	}, nil
}

type cartAbandonJob struct {
	logg    *logger.Logger
	repo    cartAbandonRepo
	metrics *metrics.JobMetrics
	idle    time.Duration
	now     func() time.Time
}

func (j *cartAbandonJob) Name() string { return cartAbandonJobName }

func (j *cartAbandonJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.idle)
	closed, err := j.repo.CloseIdleBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("close idle carts: %w", err)
	}
	j.metrics.AddAffected(cartAbandonJobName, closed)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"idle_after":   j.idle.String(),
		"carts_closed": closed,
	})
	j.logg.Info(logCtx, "idle carts closed")
	return nil
}
