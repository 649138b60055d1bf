package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

const (
	cartPurgeJobName      = "cart-purge"
	defaultCartPurgeAfter = 90 * 24 * time.Hour
)

type CartPurgeJobParams struct {
	Logger     *logger.Logger
	Repository cartPurgeRepo
	Metrics    *metrics.JobMetrics
	Retention  time.Duration
}

type cartPurgeRepo interface {
	PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewCartPurgeJob deletes closed carts, with their items, once they age past Retention.
func NewCartPurgeJob(params CartPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultCartPurgeAfter
	}
	return &cartPurgeJob{
		logg:      params.Logger,
		repo:      params.Repository,
		metrics:   params.Metrics,
		retention: retention,
		now:       time.Now,
	}, nil
}

type cartPurgeJob struct {
	logg      *logger.Logger
	repo      cartPurgeRepo
	metrics   *metrics.JobMetrics
	retention time.Duration
	now       func() time.Time
}

func (j *cartPurgeJob) Name() string { return cartPurgeJobName }

func (j *cartPurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	purged, err := j.repo.PurgeClosedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge closed carts: %w", err)
	}
	j.metrics.AddAffected(cartPurgeJobName, purged)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"retention":    j.retention.String(),
		"carts_purged": purged,
	})
	j.logg.Info(logCtx, "closed carts purged")
	return nil
}
