package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
)

func (s *PostgresStore) ListLotes(ctx context.Context) ([]*models.Lote, error) {
	rows, err := s.stmt(ctx, "list_lotes").QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lotes: %w", err)
	}
	defer rows.Close()

	var out []*models.Lote
	for rows.Next() {
		var l models.Lote
		if err := rows.Scan(&l.ID, &l.Nombre, &l.Superficie, &l.Notas, &l.FechaActualizacion); err != nil {
			return nil, fmt.Errorf("failed to scan lote: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetLote(ctx context.Context, id int) (*models.Lote, error) {
	var l models.Lote
	err := s.stmt(ctx, "get_lote").QueryRowContext(ctx, id).Scan(
		&l.ID, &l.Nombre, &l.Superficie, &l.Notas, &l.FechaActualizacion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lote: %w", err)
	}
	return &l, nil
}

func (s *PostgresStore) UpdateLoteNotas(ctx context.Context, id int, notas string) error {
	if err := s.execAffecting(ctx, "update_lote_notas", id, notas); err != nil {
		return fmt.Errorf("failed to update notas lote %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) EnsureLotes(ctx context.Context, nombres []string) error {
	for _, nombre := range nombres {
		if _, err := s.stmt(ctx, "ensure_lote").ExecContext(ctx, nombre); err != nil {
			return fmt.Errorf("failed to ensure lote %s: %w", nombre, err)
		}
	}
	return nil
}

func (s *PostgresStore) ListAsignaciones(ctx context.Context, loteID int) ([]*models.LoteAsignacion, error) {
	rows, err := s.stmt(ctx, "list_asignaciones").QueryContext(ctx, loteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list asignaciones: %w", err)
	}
	return collectAsignaciones(rows)
}

func (s *PostgresStore) ListAllAsignaciones(ctx context.Context) ([]*models.LoteAsignacion, error) {
	rows, err := s.stmt(ctx, "list_all_asignaciones").QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list asignaciones: %w", err)
	}
	return collectAsignaciones(rows)
}

func (s *PostgresStore) GetAsignacion(ctx context.Context, id int) (*models.LoteAsignacion, error) {
	var a models.LoteAsignacion
	err := s.stmt(ctx, "get_asignacion").QueryRowContext(ctx, id).Scan(
		&a.ID, &a.LoteID, &a.TipoAnimal, &a.Dueno, &a.Cantidad, &a.FechaAsignacion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asignacion: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) MergeAsignacion(ctx context.Context, a *models.LoteAsignacion) error {
	err := s.stmt(ctx, "merge_asignacion").QueryRowContext(ctx,
		a.LoteID, a.TipoAnimal, a.Dueno, a.Cantidad, a.FechaAsignacion,
	).Scan(&a.ID, &a.Cantidad)
	if err != nil {
		return fmt.Errorf("failed to merge asignacion: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteAsignacion(ctx context.Context, id int) error {
	if err := s.execAffecting(ctx, "delete_asignacion", id); err != nil {
		return fmt.Errorf("failed to delete asignacion %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) DeleteAsignacionesByLote(ctx context.Context, loteID int) error {
	if _, err := s.stmt(ctx, "delete_asignaciones_by_lote").ExecContext(ctx, loteID); err != nil {
		return fmt.Errorf("failed to delete asignaciones lote %d: %w", loteID, err)
	}
	return nil
}

func (s *PostgresStore) SumAsignado(ctx context.Context, tipo, dueno string) (int, error) {
	var total int
	if err := s.stmt(ctx, "sum_asignado").QueryRowContext(ctx, tipo, dueno).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum asignado: %w", err)
	}
	return total, nil
}

func collectAsignaciones(rows *sql.Rows) ([]*models.LoteAsignacion, error) {
	defer rows.Close()

	var out []*models.LoteAsignacion
	for rows.Next() {
		var a models.LoteAsignacion
		if err := rows.Scan(&a.ID, &a.LoteID, &a.TipoAnimal, &a.Dueno, &a.Cantidad, &a.FechaAsignacion); err != nil {
			return nil, fmt.Errorf("failed to scan asignacion: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
