package catalog

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"storefront/internal/entities"
	"storefront/internal/repository"
	"storefront/internal/service/catalog"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var productColumns = []string{
	"id", "name", "description", "price::text", "features", "platform", "min_deposit::text",
	"profit_percentage::text", "win_rate::text", "total_trades", "available", "created_at",
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) ListProducts(ctx context.Context) ([]entities.Product, error) {
	query, args, err := qb.Select(productColumns...).From("products").OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected catalog repository list error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected catalog repository list error: %w", err)
	}
	defer rows.Close()

	result := []entities.Product{}
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected catalog repository list scan error: %w", err)
		}
		product, err := ToDomain(model)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected catalog repository list rows error: %w", err)
	}

	return result, nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*entities.Product, error) {
	query, args, err := qb.Select(productColumns...).From("products").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected catalog repository get error: %w", err)
	}

	model, err := scanProduct(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("unexpected catalog repository get error: %w", err)
	}

	return ToDomain(model)
}

func (r *Repository) CreateProduct(ctx context.Context, product entities.Product) error {
	model := FromDomain(&product)

	query, args, err := qb.
		Insert("products").
		Columns(
			"id", "name", "description", "price", "features", "platform", "min_deposit",
			"profit_percentage", "win_rate", "total_trades", "available", "created_at",
		).
		Values(
			model.ID, model.Name, model.Description, model.Price, model.Features, model.Platform, model.MinDeposit,
			model.ProfitPercentage, model.WinRate, model.TotalTrades, model.Available, model.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected catalog repository create error: %w", err)
	}

	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return catalog.ErrProductExists
		}
		return fmt.Errorf("unexpected catalog repository create error: %w", err)
	}
	return nil
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("unexpected catalog repository count error: %w", err)
	}
	return count, nil
}

func (r *Repository) GetPerformance(ctx context.Context) (*entities.PerformanceMetric, error) {
	query := `SELECT total_profit::text, monthly_return::text, win_rate::text, total_trades,
			avg_trade_duration, max_drawdown::text, sharpe_ratio::text
		FROM performance_metrics
		WHERE id = 1`

	var model PerformanceDB
	err := r.querier.QueryRow(ctx, query).Scan(
		&model.TotalProfit,
		&model.MonthlyReturn,
		&model.WinRate,
		&model.TotalTrades,
		&model.AvgTradeDuration,
		&model.MaxDrawdown,
		&model.SharpeRatio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrPerformanceNotFound
		}
		return nil, fmt.Errorf("unexpected catalog repository performance error: %w", err)
	}

	return performanceToDomain(&model)
}

// ReplacePerformance upserts the single performance row.
func (r *Repository) ReplacePerformance(ctx context.Context, metric entities.PerformanceMetric) error {
	query := `INSERT INTO performance_metrics
			(id, total_profit, monthly_return, win_rate, total_trades, avg_trade_duration, max_drawdown, sharpe_ratio, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			total_profit = EXCLUDED.total_profit,
			monthly_return = EXCLUDED.monthly_return,
			win_rate = EXCLUDED.win_rate,
			total_trades = EXCLUDED.total_trades,
			avg_trade_duration = EXCLUDED.avg_trade_duration,
			max_drawdown = EXCLUDED.max_drawdown,
			sharpe_ratio = EXCLUDED.sharpe_ratio,
			updated_at = NOW()`

	_, err := r.querier.Exec(ctx, query,
		metric.TotalProfit.String(),
		metric.MonthlyReturn.String(),
		metric.WinRate.String(),
		metric.TotalTrades,
		metric.AvgTradeDuration,
		metric.MaxDrawdown.String(),
		metric.SharpeRatio.String(),
	)
	if err != nil {
		return fmt.Errorf("unexpected catalog repository replace performance error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*ProductDB, error) {
	var model ProductDB
	err := row.Scan(
		&model.ID,
		&model.Name,
		&model.Description,
		&model.Price,
		&model.Features,
		&model.Platform,
		&model.MinDeposit,
		&model.ProfitPercentage,
		&model.WinRate,
		&model.TotalTrades,
		&model.Available,
		&model.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
