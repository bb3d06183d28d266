// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"outfitted/internal/database"
	"outfitted/internal/models"
	"outfitted/internal/observability"

	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds every store call unless overridden with WithQueryTimeout.
const DefaultQueryTimeout = 5 * time.Second

// Option configures a repository.
type Option func(*base)

// WithQueryTimeout sets the per-call deadline. A non-positive value disables it.
func WithQueryTimeout(d time.Duration) Option {
	return func(b *base) {
		b.timeout = d
	}
}

type base struct {
	db      *gorm.DB
	table   string
	timeout time.Duration
}

func newBase(db *gorm.DB, table string, opts []Option) base {
	b := base{db: db, table: table, timeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// run executes fn against a context-bound handle with the call deadline,
// a repository span and latency tracking.
func (b base) run(ctx context.Context, method string, fn func(db *gorm.DB) error) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	ctx, span := observability.StartRepositorySpan(ctx, method, b.table)
	done := observability.TrackQuery(method, b.table)
	err := fn(b.db.WithContext(ctx))
	done()
	observability.EndSpan(span, err)
	return err
}

// translate maps a store error to an AppError. notFound is the message used for
// gorm.ErrRecordNotFound; AppErrors produced inside a transaction pass through.
func (b base) translate(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var out *models.AppError
	switch {
	case notFound != "" && errors.Is(err, gorm.ErrRecordNotFound):
		out = models.NewNotFoundError(notFound)
	case database.IsUnavailable(err):
		out = models.NewStoreUnavailableError(err)
	case database.IsValueTooLong(err):
		out = models.NewValidationError("Value too long")
	default:
		out = models.NewInternalError(err)
	}
	if out.Code != models.CodeNotFound {
		observability.StoreErrors.WithLabelValues(b.table, out.Code).Inc()
	}
	return out
}

// conflict records a constraint rejection and returns it as a Conflict.
func (b base) conflict(message string) error {
	observability.StoreErrors.WithLabelValues(b.table, models.CodeConflict).Inc()
	return models.NewConflictError(message)
}

// clampLimit treats zero as unset. Negative limits floor at one.
func clampLimit(limit int) int {
	if limit == 0 {
		return DefaultListLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
