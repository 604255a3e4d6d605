package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
)

// ===== NACIMIENTOS =====

func (s *PostgresStore) CreateNacimiento(ctx context.Context, n *models.Nacimiento) error {
	err := s.stmt(ctx, "create_nacimiento").QueryRowContext(ctx,
		n.Fecha, n.Dueno, n.Machos, n.Hembras, n.Notas,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to create nacimiento: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetNacimiento(ctx context.Context, id int) (*models.Nacimiento, error) {
	var n models.Nacimiento
	err := s.stmt(ctx, "get_nacimiento").QueryRowContext(ctx, id).Scan(
		&n.ID, &n.Fecha, &n.Dueno, &n.Machos, &n.Hembras, &n.Notas,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nacimiento: %w", err)
	}
	return &n, nil
}

func (s *PostgresStore) DeleteNacimiento(ctx context.Context, id int) error {
	if err := s.execAffecting(ctx, "delete_nacimiento", id); err != nil {
		return fmt.Errorf("failed to delete nacimiento %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) ListNacimientos(ctx context.Context) ([]*models.Nacimiento, error) {
	rows, err := s.stmt(ctx, "list_nacimientos").QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nacimientos: %w", err)
	}
	defer rows.Close()

	var out []*models.Nacimiento
	for rows.Next() {
		var n models.Nacimiento
		if err := rows.Scan(&n.ID, &n.Fecha, &n.Dueno, &n.Machos, &n.Hembras, &n.Notas); err != nil {
			return nil, fmt.Errorf("failed to scan nacimiento: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// ===== MUERTES =====

func (s *PostgresStore) CreateMuerte(ctx context.Context, m *models.Muerte) error {
	err := s.stmt(ctx, "create_muerte").QueryRowContext(ctx,
		m.TipoAnimal, m.Sexo, m.Dueno, m.Cantidad, m.Causa, m.EsRecienNacido, m.Fecha,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create muerte: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetMuerte(ctx context.Context, id int) (*models.Muerte, error) {
	var m models.Muerte
	err := s.stmt(ctx, "get_muerte").QueryRowContext(ctx, id).Scan(
		&m.ID, &m.TipoAnimal, &m.Sexo, &m.Dueno, &m.Cantidad, &m.Causa, &m.EsRecienNacido, &m.Fecha,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get muerte: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) DeleteMuerte(ctx context.Context, id int) error {
	if err := s.execAffecting(ctx, "delete_muerte", id); err != nil {
		return fmt.Errorf("failed to delete muerte %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) ListMuertes(ctx context.Context) ([]*models.Muerte, error) {
	rows, err := s.stmt(ctx, "list_muertes").QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list muertes: %w", err)
	}
	defer rows.Close()

	var out []*models.Muerte
	for rows.Next() {
		var m models.Muerte
		if err := rows.Scan(
			&m.ID, &m.TipoAnimal, &m.Sexo, &m.Dueno, &m.Cantidad, &m.Causa, &m.EsRecienNacido, &m.Fecha,
		); err != nil {
			return nil, fmt.Errorf("failed to scan muerte: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ===== VENTAS =====

func (s *PostgresStore) CreateVenta(ctx context.Context, v *models.Venta) error {
	if _, ok := ventasTabla[v.Categoria]; !ok {
		return fmt.Errorf("categoría de venta desconocida %q", v.Categoria)
	}
	err := s.stmt(ctx, "create_venta_"+v.Categoria).QueryRowContext(ctx,
		v.Tipo, v.FechaVenta, v.Dueno, v.Cantidad, v.KilosPorAnimal, v.KilosTotales,
		v.PrecioPorKg, v.PrecioTotal, v.FechaCobro, v.Notas,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("failed to create venta %s: %w", v.Categoria, err)
	}
	return nil
}

func (s *PostgresStore) GetVenta(ctx context.Context, categoria string, id int) (*models.Venta, error) {
	if _, ok := ventasTabla[categoria]; !ok {
		return nil, fmt.Errorf("categoría de venta desconocida %q", categoria)
	}
	v, err := scanVenta(s.stmt(ctx, "get_venta_"+categoria).QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venta %s: %w", categoria, err)
	}
	v.Categoria = categoria
	return v, nil
}

func (s *PostgresStore) DeleteVenta(ctx context.Context, categoria string, id int) error {
	if _, ok := ventasTabla[categoria]; !ok {
		return fmt.Errorf("categoría de venta desconocida %q", categoria)
	}
	if err := s.execAffecting(ctx, "delete_venta_"+categoria, id); err != nil {
		return fmt.Errorf("failed to delete venta %s %d: %w", categoria, id, err)
	}
	return nil
}

func (s *PostgresStore) ListVentas(ctx context.Context, categoria string) ([]*models.Venta, error) {
	if _, ok := ventasTabla[categoria]; !ok {
		return nil, fmt.Errorf("categoría de venta desconocida %q", categoria)
	}
	rows, err := s.stmt(ctx, "list_ventas_"+categoria).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ventas %s: %w", categoria, err)
	}
	defer rows.Close()

	var out []*models.Venta
	for rows.Next() {
		v, err := scanVenta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venta: %w", err)
		}
		v.Categoria = categoria
		out = append(out, v)
	}
	return out, rows.Err()
}

// ===== COMPRAS =====

func (s *PostgresStore) CreateCompra(ctx context.Context, c *models.Compra) error {
	if _, ok := comprasTabla[c.Categoria]; !ok {
		return fmt.Errorf("categoría de compra desconocida %q", c.Categoria)
	}
	err := s.stmt(ctx, "create_compra_"+c.Categoria).QueryRowContext(ctx,
		c.Tipo, c.FechaCompra, c.Dueno, c.Proveedor, c.Cantidad, c.KilosPorAnimal, c.KilosTotales,
		c.PrecioPorKg, c.PrecioTotal, c.FechaPago, c.Notas,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create compra %s: %w", c.Categoria, err)
	}
	return nil
}

func (s *PostgresStore) GetCompra(ctx context.Context, categoria string, id int) (*models.Compra, error) {
	if _, ok := comprasTabla[categoria]; !ok {
		return nil, fmt.Errorf("categoría de compra desconocida %q", categoria)
	}
	c, err := scanCompra(s.stmt(ctx, "get_compra_"+categoria).QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get compra %s: %w", categoria, err)
	}
	c.Categoria = categoria
	return c, nil
}

func (s *PostgresStore) DeleteCompra(ctx context.Context, categoria string, id int) error {
	if _, ok := comprasTabla[categoria]; !ok {
		return fmt.Errorf("categoría de compra desconocida %q", categoria)
	}
	if err := s.execAffecting(ctx, "delete_compra_"+categoria, id); err != nil {
		return fmt.Errorf("failed to delete compra %s %d: %w", categoria, id, err)
	}
	return nil
}

func (s *PostgresStore) ListCompras(ctx context.Context, categoria string) ([]*models.Compra, error) {
	if _, ok := comprasTabla[categoria]; !ok {
		return nil, fmt.Errorf("categoría de compra desconocida %q", categoria)
	}
	rows, err := s.stmt(ctx, "list_compras_"+categoria).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list compras %s: %w", categoria, err)
	}
	defer rows.Close()

	var out []*models.Compra
	for rows.Next() {
		c, err := scanCompra(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compra: %w", err)
		}
		c.Categoria = categoria
		out = append(out, c)
	}
	return out, rows.Err()
}

// rowScanner lo cumplen *sql.Row y *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVenta(row rowScanner) (*models.Venta, error) {
	var v models.Venta
	var fechaCobro sql.NullTime
	err := row.Scan(
		&v.ID, &v.Tipo, &v.FechaVenta, &v.Dueno, &v.Cantidad, &v.KilosPorAnimal, &v.KilosTotales,
		&v.PrecioPorKg, &v.PrecioTotal, &fechaCobro, &v.Notas,
	)
	if err != nil {
		return nil, err
	}
	v.FechaCobro = fechaNula(fechaCobro)
	return &v, nil
}

func scanCompra(row rowScanner) (*models.Compra, error) {
	var c models.Compra
	var fechaPago sql.NullTime
	err := row.Scan(
		&c.ID, &c.Tipo, &c.FechaCompra, &c.Dueno, &c.Proveedor, &c.Cantidad, &c.KilosPorAnimal,
		&c.KilosTotales, &c.PrecioPorKg, &c.PrecioTotal, &fechaPago, &c.Notas,
	)
	if err != nil {
		return nil, err
	}
	c.FechaPago = fechaNula(fechaPago)
	return &c, nil
}
