package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
)

func (s *PostgresStore) GetStockCereal(ctx context.Context, anio int, tipo string) (*models.StockCereal, error) {
	var sc models.StockCereal
	err := s.stmt(ctx, "get_stock_cereal").QueryRowContext(ctx, anio, tipo).Scan(
		&sc.ID, &sc.Anio, &sc.Tipo, &sc.KgDisponibles, &sc.KgVendidos, &sc.FechaActualizacion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock cereal: %w", err)
	}
	return &sc, nil
}

func (s *PostgresStore) ListStockCereal(ctx context.Context, anio int) ([]*models.StockCereal, error) {
	rows, err := s.stmt(ctx, "list_stock_cereal").QueryContext(ctx, anio)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock cereal: %w", err)
	}
	defer rows.Close()

	var out []*models.StockCereal
	for rows.Next() {
		var sc models.StockCereal
		if err := rows.Scan(
			&sc.ID, &sc.Anio, &sc.Tipo, &sc.KgDisponibles, &sc.KgVendidos, &sc.FechaActualizacion,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock cereal: %w", err)
		}
		out = append(out, &sc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateStockCereal(ctx context.Context, sc *models.StockCereal) error {
	_, err := s.stmt(ctx, "create_stock_cereal").ExecContext(ctx, sc.Anio, sc.Tipo, sc.KgDisponibles, sc.KgVendidos)
	if err != nil {
		return fmt.Errorf("failed to create stock cereal %d/%s: %w", sc.Anio, sc.Tipo, err)
	}
	return nil
}

func (s *PostgresStore) SetKgVendidos(ctx context.Context, anio int, tipo string, kg int) error {
	if err := s.execAffecting(ctx, "set_kg_vendidos", anio, tipo, kg); err != nil {
		return fmt.Errorf("failed to update kg vendidos %d/%s: %w", anio, tipo, err)
	}
	return nil
}

func (s *PostgresStore) ListAniosCereal(ctx context.Context) ([]int, error) {
	rows, err := s.stmt(ctx, "list_anios_cereal").QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list anios cereal: %w", err)
	}
	defer rows.Close()

	var anios []int
	for rows.Next() {
		var anio int
		if err := rows.Scan(&anio); err != nil {
			return nil, fmt.Errorf("failed to scan anio: %w", err)
		}
		anios = append(anios, anio)
	}
	return anios, rows.Err()
}

func (s *PostgresStore) CreateVentaCereal(ctx context.Context, v *models.VentaCereal) error {
	err := s.stmt(ctx, "create_venta_cereal").QueryRowContext(ctx,
		v.Fecha, v.Anio, v.Tipo, v.KgVendidos, v.PrecioPorKg, v.TotalVendido, v.Retencion,
		v.ValorFinal, v.FechaCobro, v.Notas,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("failed to create venta cereal: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetVentaCereal(ctx context.Context, id int) (*models.VentaCereal, error) {
	v, err := scanVentaCereal(s.stmt(ctx, "get_venta_cereal").QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venta cereal: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) DeleteVentaCereal(ctx context.Context, id int) error {
	if err := s.execAffecting(ctx, "delete_venta_cereal", id); err != nil {
		return fmt.Errorf("failed to delete venta cereal %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) ListVentasCereal(ctx context.Context, anio int) ([]*models.VentaCereal, error) {
	rows, err := s.stmt(ctx, "list_ventas_cereal").QueryContext(ctx, anio)
	if err != nil {
		return nil, fmt.Errorf("failed to list ventas cereal: %w", err)
	}
	return collectVentasCereal(rows)
}

func (s *PostgresStore) ListAllVentasCereal(ctx context.Context) ([]*models.VentaCereal, error) {
	rows, err := s.stmt(ctx, "list_all_ventas_cereal").QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ventas cereal: %w", err)
	}
	return collectVentasCereal(rows)
}

func collectVentasCereal(rows *sql.Rows) ([]*models.VentaCereal, error) {
	defer rows.Close()

	var out []*models.VentaCereal
	for rows.Next() {
		v, err := scanVentaCereal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venta cereal: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVentaCereal(row rowScanner) (*models.VentaCereal, error) {
	var v models.VentaCereal
	var fechaCobro sql.NullTime
	err := row.Scan(
		&v.ID, &v.Fecha, &v.Anio, &v.Tipo, &v.KgVendidos, &v.PrecioPorKg, &v.TotalVendido,
		&v.Retencion, &v.ValorFinal, &fechaCobro, &v.Notas,
	)
	if err != nil {
		return nil, err
	}
	v.FechaCobro = fechaNula(fechaCobro)
	return &v, nil
}
