package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"storefront/internal/entities"
	"storefront/internal/repository"
	"storefront/internal/service/order"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var orderColumns = []string{
	"id", "product_id", "customer_name", "customer_email", "amount::text", "payment_method",
	"transaction_hash", "status", "verification_status", "verification_message", "license_key",
	"created_at", "updated_at",
}

const (
	constraintClaimsOrderID = "transaction_claims_order_id_key"
	constraintProductFK     = "orders_product_id_fkey"
	staleResetMessage       = "verification interrupted, retry"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, o entities.Order) error {
	model := FromDomain(&o)

	query, args, err := qb.
		Insert("orders").
		Columns(
			"id", "product_id", "customer_name", "customer_email", "amount", "payment_method",
			"transaction_hash", "status", "verification_status", "verification_message", "license_key",
			"created_at", "updated_at",
		).
		Values(
			model.ID, model.ProductID, model.CustomerName, model.CustomerEmail, model.Amount, model.PaymentMethod,
			model.TransactionHash, model.Status, model.VerificationStatus, model.VerificationMessage, model.LicenseKey,
			model.CreatedAt, model.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected order repository create error: %w", err)
	}

	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		switch {
		case repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation):
			return order.ErrConflict
		case repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) &&
			repository.PgConstraint(err) == constraintProductFK:
			return order.ErrUnknownProduct
		}
		return fmt.Errorf("unexpected order repository create error: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	query, args, err := qb.Select(orderColumns...).From("orders").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	return ToDomain(model)
}

// Update applies the patch in one statement. Guards become WHERE predicates, so a patch whose
// guard no longer holds touches no row and is reported as a concurrency conflict.
func (r *Repository) Update(ctx context.Context, m entities.OrderModify) (*entities.Order, error) {
	if m.ID == nil {
		return nil, order.ErrMissingRequiredFields
	}

	builder := qb.Update("orders")

	if m.TransactionHash != nil {
		builder = builder.Set("transaction_hash", *m.TransactionHash)
	}
	if m.Status != nil {
		builder = builder.Set("status", m.Status.String())
	}
	if m.VerificationStatus != nil {
		builder = builder.Set("verification_status", m.VerificationStatus.String())
	}
	if m.VerificationMessage != nil {
		builder = builder.Set("verification_message", *m.VerificationMessage)
	}
	builder = builder.Set("updated_at", sq.Expr("NOW()"))

	builder = builder.Where(sq.Eq{"id": *m.ID})

	guarded := false
	if m.ExpectedVerificationStatus != nil {
		builder = builder.Where(sq.Eq{"verification_status": m.ExpectedVerificationStatus.String()})
		guarded = true
	}
	if m.ExpectedStatus != nil {
		builder = builder.Where(sq.Eq{"status": m.ExpectedStatus.String()})
		guarded = true
	}
	if m.RequireNoTransactionHash {
		builder = builder.Where(sq.Eq{"transaction_hash": nil})
		guarded = true
	}

	query, args, err := builder.Suffix("RETURNING " + strings.Join(orderColumns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, r.missingRowError(ctx, *m.ID, guarded)
		case repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation):
			return nil, order.ErrInvalidTransition
		}
		return nil, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	return ToDomain(model)
}

func (r *Repository) List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	builder := qb.Select(orderColumns...).From("orders").OrderBy("created_at DESC", "id DESC")
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}
	defer rows.Close()

	var models []OrderDB
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected order repository list scan error: %w", err)
		}
		models = append(models, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository list rows error: %w", err)
	}

	return ToDomainList(models)
}

func (r *Repository) Stats(ctx context.Context) (*entities.OrderStats, error) {
	query := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'verified'),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'failed'),
		COALESCE(SUM(amount) FILTER (WHERE status IN ('verified', 'completed')), 0)::text
	FROM orders`

	var model StatsDB
	err := r.querier.QueryRow(ctx, query).Scan(
		&model.TotalOrders,
		&model.PendingOrders,
		&model.VerifiedOrders,
		&model.CompletedOrders,
		&model.FailedOrders,
		&model.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository stats error: %w", err)
	}

	return statsToDomain(&model)
}

func (r *Repository) FindByTransactionHash(ctx context.Context, network entities.Network, hash string) (*entities.Order, error) {
	columns := make([]string, len(orderColumns))
	for i, c := range orderColumns {
		columns[i] = "o." + c
	}

	query, args, err := qb.
		Select(columns...).
		From("transaction_claims c").
		Join("orders o ON o.id = c.order_id").
		Where(sq.Eq{"c.network": network.String(), "c.tx_hash": hash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository find by hash error: %w", err)
	}

	model, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository find by hash error: %w", err)
	}

	return ToDomain(model)
}

// ClaimTransaction inserts the anti-replay claim. It must run in the transaction that marks the
// order verified, so a lost race rolls the whole verification back.
func (r *Repository) ClaimTransaction(ctx context.Context, network entities.Network, hash, orderID string) error {
	query := `INSERT INTO transaction_claims (network, tx_hash, order_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (network, tx_hash) DO NOTHING`

	tag, err := r.querier.Exec(ctx, query, network.String(), hash, orderID)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) &&
			repository.PgConstraint(err) == constraintClaimsOrderID {
			return order.ErrTransactionAlreadyUsed
		}
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return order.ErrOrderNotFound
		}
		return fmt.Errorf("unexpected order repository claim error: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var owner string
	err = r.querier.QueryRow(ctx,
		`SELECT order_id FROM transaction_claims WHERE network = $1 AND tx_hash = $2`,
		network.String(), hash,
	).Scan(&owner)
	if err != nil {
		return fmt.Errorf("unexpected order repository claim owner error: %w", err)
	}
	if owner != orderID {
		return order.ErrTransactionAlreadyUsed
	}
	return nil
}

func (r *Repository) ResetStaleVerifications(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `UPDATE orders
		SET verification_status = 'not_verified',
			verification_message = $1,
			updated_at = NOW()
		WHERE verification_status = 'verifying'
			AND updated_at <= NOW() - make_interval(secs => $2)`

	tag, err := r.querier.Exec(ctx, query, staleResetMessage, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("unexpected order repository reset stale error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) missingRowError(ctx context.Context, id string, guarded bool) error {
	if !guarded {
		return order.ErrOrderNotFound
	}

	var exists bool
	err := r.querier.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("unexpected order repository exists error: %w", err)
	}
	if !exists {
		return order.ErrOrderNotFound
	}
	return order.ErrConcurrencyConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*OrderDB, error) {
	var model OrderDB
	err := row.Scan(
		&model.ID,
		&model.ProductID,
		&model.CustomerName,
		&model.CustomerEmail,
		&model.Amount,
		&model.PaymentMethod,
		&model.TransactionHash,
		&model.Status,
		&model.VerificationStatus,
		&model.VerificationMessage,
		&model.LicenseKey,
		&model.CreatedAt,
		&model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
