package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"codearena/internal/config"
	"codearena/internal/database"
	"codearena/internal/models"

	"go.uber.org/zap"
)

// defaultSlowQueryThreshold applies when the configuration leaves the
// threshold unset.
const defaultSlowQueryThreshold = 100 * time.Millisecond

// BaseRepository provides common database operations shared by all repositories
type BaseRepository struct {
	db                 *database.Manager
	logger             *zap.Logger
	slowQueryThreshold time.Duration
	queryLogging       bool
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	threshold, queryLogging := queryLogSettings(db.Config())
	return &BaseRepository{
		db:                 db,
		logger:             logger,
		slowQueryThreshold: threshold,
		queryLogging:       queryLogging,
	}
}

// queryLogSettings resolves the slow-query threshold and query logging flag
// from the database configuration
func queryLogSettings(cfg *config.DatabaseConfig) (time.Duration, bool) {
	threshold := cfg.SlowQueryThreshold
	if threshold <= 0 {
		threshold = defaultSlowQueryThreshold
	}
	return threshold, cfg.EnableQueryLogging
}

// ===============================
// CORE DATABASE OPERATIONS
// ===============================

// ExecContext executes a statement with slow-query logging
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)

	duration := time.Since(start)
	r.logQuery(query, duration)

	if err != nil {
		r.logger.Error("Query execution failed",
			zap.String("query", r.truncateQuery(query)),
			zap.Error(err),
		)
	}

	return result, err
}

// QueryContext executes a query that returns rows
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)

	duration := time.Since(start)
	r.logQuery(query, duration)

	if err != nil {
		r.logger.Error("Query execution failed",
			zap.String("query", r.truncateQuery(query)),
			zap.Error(err),
		)
	}

	return rows, err
}

// QueryRowContext executes a query that returns a single row
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// WithTransaction executes a function within a database transaction
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction",
				zap.Error(rbErr),
				zap.Error(err),
			)
		}
		return err
	}

	return tx.Commit()
}

// ===============================
// PAGINATION HELPERS
// ===============================

// NormalizePagination applies defaults and caps, and restricts sorting to the
// given column whitelist so sort input can never reach SQL unchecked.
func (r *BaseRepository) NormalizePagination(params models.PaginationParams, validSorts map[string]bool, defaultSort string) models.PaginationParams {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Limit > 100 {
		params.Limit = 100
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if !validSorts[params.Sort] {
		params.Sort = defaultSort
	}
	if params.Order != "asc" && params.Order != "desc" {
		params.Order = "desc"
	}
	return params
}

// OrderLimitClause renders the trailing ORDER BY / LIMIT / OFFSET of a
// normalized query. Sort and order must already be whitelisted.
func (r *BaseRepository) OrderLimitClause(params models.PaginationParams) string {
	return fmt.Sprintf(" ORDER BY %s %s LIMIT %d OFFSET %d",
		params.Sort, strings.ToUpper(params.Order), params.Limit, params.Offset)
}

// GetTotalCount executes a count query
func (r *BaseRepository) GetTotalCount(ctx context.Context, countQuery string, args ...interface{}) (int64, error) {
	var total int64
	err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	return total, err
}

// BuildPaginationMeta creates pagination metadata for a returned page
func (r *BaseRepository) BuildPaginationMeta(params models.PaginationParams, total int64) models.PaginationMeta {
	currentPage := (params.Offset / params.Limit) + 1
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	return models.PaginationMeta{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
		HasNext:      int64(params.Offset+params.Limit) < total,
		HasPrev:      params.Offset > 0,
	}
}

// ===============================
// UTILITY METHODS
// ===============================

// logQuery emits the per-query debug line when query logging is enabled and
// warns when a query exceeds the slow-query threshold
func (r *BaseRepository) logQuery(query string, duration time.Duration) {
	if r.queryLogging {
		r.logger.Debug("Query executed",
			zap.String("query", r.truncateQuery(query)),
			zap.Duration("duration", duration),
		)
	}
	if duration > r.slowQueryThreshold {
		r.logger.Warn("Slow query detected",
			zap.String("query", r.truncateQuery(query)),
			zap.Duration("duration", duration),
		)
	}
}

// truncateQuery truncates long queries for logging
func (r *BaseRepository) truncateQuery(query string) string {
	const maxLength = 200
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}

// IsNotFound checks if error is a "not found" error
func (r *BaseRepository) IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// GetLogger returns the logger instance
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}
