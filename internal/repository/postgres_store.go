package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
)

var ventasTabla = map[string]string{
	models.CategoriaTerneros:   "ventas_terneros",
	models.CategoriaVacasToros: "ventas_vacas_toros",
}

var comprasTabla = map[string]string{
	models.CategoriaTerneros:   "compras_terneros",
	models.CategoriaVacasToros: "compras_vacas_toros",
}

// PostgresStore implementa Store sobre database/sql + lib/pq.
// Las consultas se preparan una vez y se enlazan a la transacción con tx.StmtContext.
type PostgresStore struct {
	db    *sql.DB
	tx    *sql.Tx
	stmts map[string]*sql.Stmt
}

// NewPostgresStore prepara todas las consultas contra db
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) prepareStatements() error {
	statements := map[string]string{
		// stock
		"list_stock": `
			SELECT id, tipo, dueno, cantidad, fecha_actualizacion
			FROM stock
			WHERE ($1 = '' OR dueno = $1) AND ($2 = '' OR tipo = $2)
			ORDER BY dueno, tipo
		`,
		"get_stock": `
			SELECT id, tipo, dueno, cantidad, fecha_actualizacion
			FROM stock
			WHERE tipo = $1 AND dueno = $2
		`,
		"ensure_stock": `
			INSERT INTO stock (tipo, dueno, cantidad)
			VALUES ($1, $2, 0)
			ON CONFLICT (tipo, dueno) DO NOTHING
		`,
		"lock_stock": `
			SELECT cantidad FROM stock
			WHERE tipo = $1 AND dueno = $2
			FOR UPDATE
		`,
		"set_stock": `
			INSERT INTO stock (tipo, dueno, cantidad, fecha_actualizacion)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (tipo, dueno)
			DO UPDATE SET cantidad = EXCLUDED.cantidad, fecha_actualizacion = NOW()
		`,
		"reset_stock": `UPDATE stock SET cantidad = 0, fecha_actualizacion = NOW()`,

		// nacimientos
		"create_nacimiento": `
			INSERT INTO nacimientos (fecha, dueno, machos, hembras, notas)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
		"get_nacimiento": `
			SELECT id, fecha, dueno, machos, hembras, notas
			FROM nacimientos WHERE id = $1
			FOR UPDATE
		`,
		"delete_nacimiento": `DELETE FROM nacimientos WHERE id = $1`,
		"list_nacimientos": `
			SELECT id, fecha, dueno, machos, hembras, notas
			FROM nacimientos ORDER BY fecha DESC, id DESC
		`,

		// muertes
		"create_muerte": `
			INSERT INTO muertes (tipo_animal, sexo, dueno, cantidad, causa, es_recien_nacido, fecha)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`,
		"get_muerte": `
			SELECT id, tipo_animal, sexo, dueno, cantidad, causa, es_recien_nacido, fecha
			FROM muertes WHERE id = $1
			FOR UPDATE
		`,
		"delete_muerte": `DELETE FROM muertes WHERE id = $1`,
		"list_muertes": `
			SELECT id, tipo_animal, sexo, dueno, cantidad, causa, es_recien_nacido, fecha
			FROM muertes ORDER BY fecha DESC, id DESC
		`,

		// cereales
		"get_stock_cereal": `
			SELECT id, anio, tipo, kg_disponibles, kg_vendidos, fecha_actualizacion
			FROM stock_cereales WHERE anio = $1 AND tipo = $2
			FOR UPDATE
		`,
		"list_stock_cereal": `
			SELECT id, anio, tipo, kg_disponibles, kg_vendidos, fecha_actualizacion
			FROM stock_cereales WHERE anio = $1 ORDER BY tipo
		`,
		"create_stock_cereal": `
			INSERT INTO stock_cereales (anio, tipo, kg_disponibles, kg_vendidos)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (anio, tipo) DO NOTHING
		`,
		"set_kg_vendidos": `
			UPDATE stock_cereales SET kg_vendidos = $3, fecha_actualizacion = NOW()
			WHERE anio = $1 AND tipo = $2
		`,
		"list_anios_cereal": `SELECT DISTINCT anio FROM stock_cereales ORDER BY anio DESC`,
		"create_venta_cereal": `
			INSERT INTO ventas_cereales
			(fecha, anio, tipo, kg_vendidos, precio_por_kg, total_vendido, retencion, valor_final, fecha_cobro, notas)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`,
		"get_venta_cereal": `
			SELECT id, fecha, anio, tipo, kg_vendidos, precio_por_kg, total_vendido, retencion,
				   valor_final, fecha_cobro, notas
			FROM ventas_cereales WHERE id = $1
			FOR UPDATE
		`,
		"delete_venta_cereal": `DELETE FROM ventas_cereales WHERE id = $1`,
		"list_ventas_cereal": `
			SELECT id, fecha, anio, tipo, kg_vendidos, precio_por_kg, total_vendido, retencion,
				   valor_final, fecha_cobro, notas
			FROM ventas_cereales WHERE anio = $1 ORDER BY fecha DESC, id DESC
		`,
		"list_all_ventas_cereal": `
			SELECT id, fecha, anio, tipo, kg_vendidos, precio_por_kg, total_vendido, retencion,
				   valor_final, fecha_cobro, notas
			FROM ventas_cereales ORDER BY fecha DESC, id DESC
		`,

		// lotes
		"list_lotes": `
			SELECT id, nombre, superficie, notas, fecha_actualizacion
			FROM lotes ORDER BY nombre
		`,
		"get_lote": `
			SELECT id, nombre, superficie, notas, fecha_actualizacion
			FROM lotes WHERE id = $1
		`,
		"update_lote_notas": `
			UPDATE lotes SET notas = $2, fecha_actualizacion = NOW() WHERE id = $1
		`,
		"ensure_lote": `
			INSERT INTO lotes (nombre) VALUES ($1)
			ON CONFLICT (nombre) DO NOTHING
		`,
		"list_asignaciones": `
			SELECT id, lote_id, tipo_animal, dueno, cantidad, fecha_asignacion
			FROM lote_asignaciones WHERE lote_id = $1
			ORDER BY fecha_asignacion DESC, id DESC
		`,
		"list_all_asignaciones": `
			SELECT id, lote_id, tipo_animal, dueno, cantidad, fecha_asignacion
			FROM lote_asignaciones ORDER BY lote_id, id
		`,
		"get_asignacion": `
			SELECT id, lote_id, tipo_animal, dueno, cantidad, fecha_asignacion
			FROM lote_asignaciones WHERE id = $1
			FOR UPDATE
		`,
		"merge_asignacion": `
			INSERT INTO lote_asignaciones (lote_id, tipo_animal, dueno, cantidad, fecha_asignacion)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (lote_id, tipo_animal, dueno)
			DO UPDATE SET cantidad = lote_asignaciones.cantidad + EXCLUDED.cantidad,
			              fecha_asignacion = EXCLUDED.fecha_asignacion
			RETURNING id, cantidad
		`,
		"delete_asignacion":           `DELETE FROM lote_asignaciones WHERE id = $1`,
		"delete_asignaciones_by_lote": `DELETE FROM lote_asignaciones WHERE lote_id = $1`,
		"sum_asignado": `
			SELECT COALESCE(SUM(cantidad), 0) FROM lote_asignaciones
			WHERE tipo_animal = $1 AND dueno = $2
		`,
	}

	for categoria, tabla := range ventasTabla {
		statements["create_venta_"+categoria] = fmt.Sprintf(`
			INSERT INTO %s
			(tipo, fecha_venta, dueno, cantidad, kilos_por_animal, kilos_totales, precio_por_kg,
			 precio_total, fecha_cobro, notas)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, tabla)
		statements["get_venta_"+categoria] = fmt.Sprintf(`
			SELECT id, tipo, fecha_venta, dueno, cantidad, kilos_por_animal, kilos_totales,
				   precio_por_kg, precio_total, fecha_cobro, notas
			FROM %s WHERE id = $1
			FOR UPDATE
		`, tabla)
		statements["delete_venta_"+categoria] = fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tabla)
		statements["list_ventas_"+categoria] = fmt.Sprintf(`
			SELECT id, tipo, fecha_venta, dueno, cantidad, kilos_por_animal, kilos_totales,
				   precio_por_kg, precio_total, fecha_cobro, notas
			FROM %s ORDER BY fecha_venta DESC, id DESC
		`, tabla)
	}

	for categoria, tabla := range comprasTabla {
		statements["create_compra_"+categoria] = fmt.Sprintf(`
			INSERT INTO %s
			(tipo, fecha_compra, dueno, proveedor, cantidad, kilos_por_animal, kilos_totales,
			 precio_por_kg, precio_total, fecha_pago, notas)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`, tabla)
		statements["get_compra_"+categoria] = fmt.Sprintf(`
			SELECT id, tipo, fecha_compra, dueno, proveedor, cantidad, kilos_por_animal,
				   kilos_totales, precio_por_kg, precio_total, fecha_pago, notas
			FROM %s WHERE id = $1
			FOR UPDATE
		`, tabla)
		statements["delete_compra_"+categoria] = fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tabla)
		statements["list_compras_"+categoria] = fmt.Sprintf(`
			SELECT id, tipo, fecha_compra, dueno, proveedor, cantidad, kilos_por_animal,
				   kilos_totales, precio_por_kg, precio_total, fecha_pago, notas
			FROM %s ORDER BY fecha_compra DESC, id DESC
		`, tabla)
	}

	for name, query := range statements {
		stmt, err := s.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		s.stmts[name] = stmt
	}

	return nil
}

// stmt devuelve la consulta preparada, enlazada a la transacción si hay una abierta
func (s *PostgresStore) stmt(ctx context.Context, name string) *sql.Stmt {
	st, ok := s.stmts[name]
	if !ok {
		panic("repository: statement no preparado: " + name)
	}
	if s.tx != nil {
		return s.tx.StmtContext(ctx, st)
	}
	return st
}

func (s *PostgresStore) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if s.tx != nil {
		return s.tx.ExecContext(ctx, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

// execAffecting ejecuta la consulta y devuelve ErrNotFound si no tocó ninguna fila
func (s *PostgresStore) execAffecting(ctx context.Context, name string, args ...interface{}) error {
	result, err := s.stmt(ctx, name).ExecContext(ctx, args...)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WithTx abre una transacción READ COMMITTED. Los invariantes se protegen con SELECT ... FOR UPDATE.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	txStore := &PostgresStore{db: s.db, tx: tx, stmts: s.stmts}
	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) TruncateLedger(ctx context.Context) error {
	_, err := s.execContext(ctx, `
		TRUNCATE nacimientos, muertes, ventas_terneros, ventas_vacas_toros,
		         compras_terneros, compras_vacas_toros, ventas_cereales,
		         stock_cereales, lote_asignaciones
		RESTART IDENTITY
	`)
	if err != nil {
		return fmt.Errorf("failed to truncate ledger: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close libera las consultas preparadas. No cierra la conexión.
func (s *PostgresStore) Close() error {
	for name, stmt := range s.stmts {
		if err := stmt.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", name, err)
		}
	}
	return nil
}

func fechaNula(nt sql.NullTime) *models.Fecha {
	if !nt.Valid {
		return nil
	}
	f := models.FechaDe(nt.Time)
	return &f
}
