package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
)

// ListStock lista el stock, opcionalmente filtrado por dueño y/o tipo
func (s *PostgresStore) ListStock(ctx context.Context, filter models.StockFilter) ([]*models.Stock, error) {
	rows, err := s.stmt(ctx, "list_stock").QueryContext(ctx, filter.Dueno, filter.Tipo)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	defer rows.Close()

	var stocks []*models.Stock
	for rows.Next() {
		var stock models.Stock
		if err := rows.Scan(&stock.ID, &stock.Tipo, &stock.Dueno, &stock.Cantidad, &stock.FechaActualizacion); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, &stock)
	}

	return stocks, rows.Err()
}

func (s *PostgresStore) GetStock(ctx context.Context, tipo, dueno string) (*models.Stock, error) {
	var stock models.Stock
	err := s.stmt(ctx, "get_stock").QueryRowContext(ctx, tipo, dueno).Scan(
		&stock.ID, &stock.Tipo, &stock.Dueno, &stock.Cantidad, &stock.FechaActualizacion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}

	return &stock, nil
}

// LockStock materializa las filas ausentes con cantidad 0 y las bloquea en orden
func (s *PostgresStore) LockStock(ctx context.Context, keys []models.StockKey) (map[models.StockKey]int, error) {
	cantidades := make(map[models.StockKey]int, len(keys))
	for _, key := range models.SortKeys(keys) {
		if _, err := s.stmt(ctx, "ensure_stock").ExecContext(ctx, key.Tipo, key.Dueno); err != nil {
			return nil, fmt.Errorf("failed to ensure stock %s/%s: %w", key.Tipo, key.Dueno, err)
		}

		var cantidad int
		if err := s.stmt(ctx, "lock_stock").QueryRowContext(ctx, key.Tipo, key.Dueno).Scan(&cantidad); err != nil {
			return nil, fmt.Errorf("failed to lock stock %s/%s: %w", key.Tipo, key.Dueno, err)
		}
		cantidades[key] = cantidad
	}

	return cantidades, nil
}

func (s *PostgresStore) SetStock(ctx context.Context, tipo, dueno string, cantidad int) error {
	if _, err := s.stmt(ctx, "set_stock").ExecContext(ctx, tipo, dueno, cantidad); err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}
	return nil
}

func (s *PostgresStore) EnsureStock(ctx context.Context, keys []models.StockKey) error {
	for _, key := range keys {
		if _, err := s.stmt(ctx, "ensure_stock").ExecContext(ctx, key.Tipo, key.Dueno); err != nil {
			return fmt.Errorf("failed to ensure stock %s/%s: %w", key.Tipo, key.Dueno, err)
		}
	}
	return nil
}

func (s *PostgresStore) ResetStock(ctx context.Context) error {
	if _, err := s.stmt(ctx, "reset_stock").ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to reset stock: %w", err)
	}
	return nil
}
