package services

import (
	"context"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// efecto empareja por tipo de evento la escritura del registro con su impacto en el stock.
// revertir recalcula el impacto desde la fila guardada y aplica su negación exacta.
// Toda validación ocurre antes de la primera escritura.
type efecto interface {
	aplicar(ctx context.Context, acc *StockAccessor, tx repository.Store) error
	revertir(ctx context.Context, acc *StockAccessor, tx repository.Store) error
}

// efectoHacienda lo comparten los eventos que mueven stock de animales
type efectoHacienda interface {
	efecto
	deltas() []models.StockDelta
}

var (
	_ efectoHacienda = efectoNacimiento{}
	_ efectoHacienda = efectoMuerte{}
	_ efectoHacienda = efectoVenta{}
	_ efectoHacienda = efectoCompra{}
	_ efecto         = efectoVentaCereal{}
)

// ===== NACIMIENTO: +machos Terneros, +hembras Terneras =====

type efectoNacimiento struct {
	n *models.Nacimiento
}

func (e efectoNacimiento) deltas() []models.StockDelta {
	return []models.StockDelta{
		{StockKey: models.StockKey{Tipo: models.TipoTerneros, Dueno: e.n.Dueno}, Delta: e.n.Machos},
		{StockKey: models.StockKey{Tipo: models.TipoTerneras, Dueno: e.n.Dueno}, Delta: e.n.Hembras},
	}
}

func (e efectoNacimiento) aplicar(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, e.deltas()); err != nil {
		return err
	}
	return tx.CreateNacimiento(ctx, e.n)
}

func (e efectoNacimiento) revertir(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, models.Negar(e.deltas())); err != nil {
		return err
	}
	return tx.DeleteNacimiento(ctx, e.n.ID)
}

// ===== MUERTE: -cantidad del tipo =====

type efectoMuerte struct {
	m *models.Muerte
}

func (e efectoMuerte) deltas() []models.StockDelta {
	return []models.StockDelta{
		{StockKey: models.StockKey{Tipo: e.m.TipoAnimal, Dueno: e.m.Dueno}, Delta: -e.m.Cantidad},
	}
}

func (e efectoMuerte) aplicar(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, e.deltas()); err != nil {
		return err
	}
	return tx.CreateMuerte(ctx, e.m)
}

func (e efectoMuerte) revertir(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, models.Negar(e.deltas())); err != nil {
		return err
	}
	return tx.DeleteMuerte(ctx, e.m.ID)
}

// ===== VENTA: -cantidad del tipo registrado =====

type efectoVenta struct {
	v *models.Venta
}

func (e efectoVenta) deltas() []models.StockDelta {
	return []models.StockDelta{
		{StockKey: models.StockKey{Tipo: e.v.Tipo, Dueno: e.v.Dueno}, Delta: -e.v.Cantidad},
	}
}

func (e efectoVenta) aplicar(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, e.deltas()); err != nil {
		return err
	}
	return tx.CreateVenta(ctx, e.v)
}

func (e efectoVenta) revertir(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, models.Negar(e.deltas())); err != nil {
		return err
	}
	return tx.DeleteVenta(ctx, e.v.Categoria, e.v.ID)
}

// ===== COMPRA: +cantidad del tipo registrado =====

type efectoCompra struct {
	c *models.Compra
}

func (e efectoCompra) deltas() []models.StockDelta {
	return []models.StockDelta{
		{StockKey: models.StockKey{Tipo: e.c.Tipo, Dueno: e.c.Dueno}, Delta: e.c.Cantidad},
	}
}

func (e efectoCompra) aplicar(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, e.deltas()); err != nil {
		return err
	}
	return tx.CreateCompra(ctx, e.c)
}

func (e efectoCompra) revertir(ctx context.Context, acc *StockAccessor, tx repository.Store) error {
	if _, err := acc.AdjustMany(ctx, models.Negar(e.deltas())); err != nil {
		return err
	}
	return tx.DeleteCompra(ctx, e.c.Categoria, e.c.ID)
}

// ===== VENTA DE CEREAL: +kg vendidos del (año, color) =====

type efectoVentaCereal struct {
	v *models.VentaCereal
}

func (e efectoVentaCereal) aplicar(ctx context.Context, _ *StockAccessor, tx repository.Store) error {
	sc, err := tx.GetStockCereal(ctx, e.v.Anio, e.v.Tipo)
	if err != nil {
		return err
	}
	if sc == nil {
		return &NoStockForYearError{Anio: e.v.Anio, Tipo: e.v.Tipo}
	}
	if e.v.KgVendidos > sc.KgRestantes() {
		return &InsufficientGrainStockError{
			Anio:       e.v.Anio,
			Tipo:       e.v.Tipo,
			Restante:   sc.KgRestantes(),
			Solicitado: e.v.KgVendidos,
		}
	}

	if err := tx.SetKgVendidos(ctx, e.v.Anio, e.v.Tipo, sc.KgVendidos+e.v.KgVendidos); err != nil {
		return err
	}
	return tx.CreateVentaCereal(ctx, e.v)
}

func (e efectoVentaCereal) revertir(ctx context.Context, _ *StockAccessor, tx repository.Store) error {
	sc, err := tx.GetStockCereal(ctx, e.v.Anio, e.v.Tipo)
	if err != nil {
		return err
	}
	if sc == nil {
		return fmt.Errorf("stock de cereal %s %d ausente para la venta %d", e.v.Tipo, e.v.Anio, e.v.ID)
	}
	vendidos := sc.KgVendidos - e.v.KgVendidos
	if vendidos < 0 {
		return fmt.Errorf("kg vendidos de %s %d quedarían negativos (%d)", e.v.Tipo, e.v.Anio, vendidos)
	}

	if err := tx.SetKgVendidos(ctx, e.v.Anio, e.v.Tipo, vendidos); err != nil {
		return err
	}
	return tx.DeleteVentaCereal(ctx, e.v.ID)
}
