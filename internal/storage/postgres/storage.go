package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses; pgxmock satisfies
// it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type customerRepository struct {
	storage *Storage
}

type ruleRepository struct {
	storage *Storage
}

type requestRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Rules() repository.RuleRepository {
	return &ruleRepository{storage: s}
}

func (s *Storage) Requests() repository.RequestRepository {
	return &requestRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            address TEXT NOT NULL,
            price_per_can DOUBLE PRECISION NOT NULL DEFAULT 0,
            payment_type TEXT NOT NULL DEFAULT 'cash',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS recurrence_rules (
            id SERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            rule_type TEXT NOT NULL,
            days INTEGER[] NOT NULL DEFAULT '{}',
            rule_date TEXT NOT NULL DEFAULT '',
            time_of_day TEXT NOT NULL,
            cans INTEGER NOT NULL DEFAULT 1,
            priority TEXT NOT NULL DEFAULT 'normal',
            next_run TIMESTAMPTZ,
            last_triggered_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS delivery_requests (
            id SERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            customer_name TEXT NOT NULL,
            address TEXT NOT NULL,
            price_per_can DOUBLE PRECISION NOT NULL DEFAULT 0,
            payment_type TEXT NOT NULL DEFAULT 'cash',
            cans INTEGER NOT NULL DEFAULT 1,
            priority TEXT NOT NULL DEFAULT 'normal',
            status TEXT NOT NULL,
            requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            delivered_at TIMESTAMPTZ,
            completed_at TIMESTAMPTZ,
            cancelled_at TIMESTAMPTZ,
            cancelled_by TEXT NOT NULL DEFAULT '',
            cancellation_reason TEXT NOT NULL DEFAULT '',
            cancellation_notes TEXT NOT NULL DEFAULT ''
        )`,
		// The authoritative single-active-request constraint: a second
		// insert for a customer with an active request must fail here no
		// matter how the race between writers plays out.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_requests_one_active
            ON delivery_requests(customer_id)
            WHERE status IN ('pending', 'pending_confirmation', 'processing')`,
		`CREATE INDEX IF NOT EXISTS idx_rules_next_run ON recurrence_rules(next_run)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_customer ON delivery_requests(customer_id, requested_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	const query = `INSERT INTO customers (name, address, price_per_can, payment_type)
                   VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	created := *customer
	err := r.storage.pool.QueryRow(ctx, query, customer.Name, customer.Address, customer.PricePerCan, customer.PaymentType).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT id, name, address, price_per_can, payment_type, created_at
                   FROM customers WHERE id=$1`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.PricePerCan, &c.PaymentType, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	const query = `SELECT id, name, address, price_per_can, payment_type, created_at
                   FROM customers ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.PricePerCan, &c.PaymentType, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- RuleRepository implementation ---

const ruleColumns = `id, customer_id, rule_type, days, rule_date, time_of_day, cans, priority,
                     next_run, last_triggered_at, created_at, updated_at`

func scanRule(row pgx.Row) (*model.RecurrenceRule, error) {
	var rule model.RecurrenceRule
	var days []int32
	err := row.Scan(&rule.ID, &rule.CustomerID, &rule.Type, &days, &rule.Date, &rule.Time,
		&rule.Cans, &rule.Priority, &rule.NextRun, &rule.LastTriggeredAt, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rule.Days = make([]int, 0, len(days))
	for _, d := range days {
		rule.Days = append(rule.Days, int(d))
	}
	return &rule, nil
}

func daysParam(days []int) []int32 {
	out := make([]int32, 0, len(days))
	for _, d := range days {
		out = append(out, int32(d))
	}
	return out
}

func (r *ruleRepository) Create(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	const query = `INSERT INTO recurrence_rules
                   (customer_id, rule_type, days, rule_date, time_of_day, cans, priority, next_run)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at, updated_at`
	created := *rule
	err := r.storage.pool.QueryRow(ctx, query,
		rule.CustomerID, rule.Type, daysParam(rule.Days), rule.Date, rule.Time,
		rule.Cans, rule.Priority, rule.NextRun).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ruleRepository) GetByID(ctx context.Context, id int64) (*model.RecurrenceRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurrence_rules WHERE id=$1`
	rule, err := scanRule(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *ruleRepository) List(ctx context.Context) ([]model.RecurrenceRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurrence_rules ORDER BY id`
	return r.queryRules(ctx, query)
}

func (r *ruleRepository) Due(ctx context.Context, now time.Time) ([]model.RecurrenceRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurrence_rules
              WHERE next_run IS NOT NULL AND next_run <= $1
              ORDER BY next_run ASC`
	return r.queryRules(ctx, query, now)
}

func (r *ruleRepository) queryRules(ctx context.Context, query string, args ...any) ([]model.RecurrenceRule, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.RecurrenceRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ruleRepository) Update(ctx context.Context, rule *model.RecurrenceRule) error {
	const query = `UPDATE recurrence_rules
                   SET rule_type=$1, days=$2, rule_date=$3, time_of_day=$4, cans=$5, priority=$6,
                       next_run=$7, updated_at=NOW()
                   WHERE id=$8`
	tag, err := r.storage.pool.Exec(ctx, query,
		rule.Type, daysParam(rule.Days), rule.Date, rule.Time, rule.Cans, rule.Priority,
		rule.NextRun, rule.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *ruleRepository) UpdateSchedule(ctx context.Context, id int64, nextRun, lastTriggeredAt *time.Time) error {
	const query = `UPDATE recurrence_rules
                   SET next_run=$1, last_triggered_at=COALESCE($2, last_triggered_at), updated_at=NOW()
                   WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, nextRun, lastTriggeredAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *ruleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM recurrence_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- RequestRepository implementation ---

const requestColumns = `id, customer_id, customer_name, address, price_per_can, payment_type,
                        cans, priority, status, requested_at, delivered_at, completed_at,
                        cancelled_at, cancelled_by, cancellation_reason, cancellation_notes`

func scanRequest(row pgx.Row) (*model.DeliveryRequest, error) {
	var req model.DeliveryRequest
	err := row.Scan(&req.ID, &req.CustomerID, &req.CustomerName, &req.Address, &req.PricePerCan,
		&req.PaymentType, &req.Cans, &req.Priority, &req.Status, &req.RequestedAt,
		&req.DeliveredAt, &req.CompletedAt, &req.CancelledAt, &req.CancelledBy,
		&req.CancellationReason, &req.CancellationNotes)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) Create(ctx context.Context, request *model.DeliveryRequest) (*model.DeliveryRequest, error) {
	// ON CONFLICT against the partial unique index: a concurrent active
	// request makes the insert a no-op instead of an error, and the
	// conflicting row is reported back to the caller.
	const query = `INSERT INTO delivery_requests
                   (customer_id, customer_name, address, price_per_can, payment_type, cans, priority, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   ON CONFLICT (customer_id)
                   WHERE status IN ('pending', 'pending_confirmation', 'processing')
                   DO NOTHING
                   RETURNING id, requested_at`
	created := *request
	err := r.storage.pool.QueryRow(ctx, query,
		request.CustomerID, request.CustomerName, request.Address, request.PricePerCan,
		request.PaymentType, request.Cans, request.Priority, request.Status).
		Scan(&created.ID, &created.RequestedAt)
	if err == nil {
		return &created, nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		existing, lookupErr := r.ActiveForCustomer(ctx, request.CustomerID)
		if lookupErr != nil {
			if errors.Is(lookupErr, domainErrors.ErrNotFound) {
				// Conflict row cleared between insert and lookup; the
				// caller retries on its next cycle.
				return nil, domainErrors.ErrDuplicateActiveRequest
			}
			return nil, lookupErr
		}
		return nil, &domainErrors.DuplicateActiveRequestError{
			ExistingID:     existing.ID,
			ExistingStatus: string(existing.Status),
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, domainErrors.ErrDuplicateActiveRequest
	}
	return nil, err
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*model.DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delivery_requests WHERE id=$1`
	req, err := scanRequest(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) ActiveForCustomer(ctx context.Context, customerID int64) (*model.DeliveryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delivery_requests
              WHERE customer_id=$1 AND status IN ('pending', 'pending_confirmation', 'processing')
              LIMIT 1`
	req, err := scanRequest(r.storage.pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) List(ctx context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		query := `SELECT ` + requestColumns + ` FROM delivery_requests ORDER BY requested_at DESC`
		rows, err = r.storage.pool.Query(ctx, query)
	} else {
		query := `SELECT ` + requestColumns + ` FROM delivery_requests WHERE status=$1 ORDER BY requested_at DESC`
		rows, err = r.storage.pool.Query(ctx, query, status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DeliveryRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, request *model.DeliveryRequest) error {
	const query = `UPDATE delivery_requests
                   SET status=$1, delivered_at=$2, completed_at=$3,
                       cancelled_at=$4, cancelled_by=$5, cancellation_reason=$6, cancellation_notes=$7
                   WHERE id=$8`
	tag, err := r.storage.pool.Exec(ctx, query,
		request.Status, request.DeliveredAt, request.CompletedAt,
		request.CancelledAt, request.CancelledBy, request.CancellationReason,
		request.CancellationNotes, request.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
