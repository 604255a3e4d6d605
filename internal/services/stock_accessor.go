package services

import (
	"context"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// StockAccessor es el único camino que escribe filas de stock.
// Cada método corre dentro de store.WithTx: si el store ya está en una transacción, se suma a ella.
type StockAccessor struct {
	store    repository.Store
	catalogo models.Catalogo
}

func NewStockAccessor(store repository.Store, catalogo models.Catalogo) *StockAccessor {
	return &StockAccessor{store: store, catalogo: catalogo}
}

// en devuelve un accessor ligado a la transacción tx
func (a *StockAccessor) en(tx repository.Store) *StockAccessor {
	return &StockAccessor{store: tx, catalogo: a.catalogo}
}

func (a *StockAccessor) validarClave(tipo, dueno string) error {
	if !a.catalogo.EsTipo(tipo) {
		return invalido("tipo", fmt.Sprintf("tipo de animal desconocido %q", tipo))
	}
	if !a.catalogo.EsDueno(dueno) {
		return invalido("dueno", fmt.Sprintf("dueño desconocido %q", dueno))
	}
	return nil
}

// GetQuantity devuelve 0 si la fila no existe
func (a *StockAccessor) GetQuantity(ctx context.Context, tipo, dueno string) (int, error) {
	if err := a.validarClave(tipo, dueno); err != nil {
		return 0, err
	}
	stock, err := a.store.GetStock(ctx, tipo, dueno)
	if err != nil {
		return 0, fmt.Errorf("error obteniendo stock: %w", err)
	}
	if stock == nil {
		return 0, nil
	}
	return stock.Cantidad, nil
}

// Adjust suma delta a la fila y devuelve la cantidad nueva
func (a *StockAccessor) Adjust(ctx context.Context, tipo, dueno string, delta int) (int, error) {
	key := models.StockKey{Tipo: tipo, Dueno: dueno}
	nuevas, err := a.AdjustMany(ctx, []models.StockDelta{{StockKey: key, Delta: delta}})
	if err != nil {
		return 0, err
	}
	return nuevas[key], nil
}

// AdjustMany bloquea todas las filas tocadas, valida todos los deltas y recién entonces escribe.
// Deltas repetidos sobre la misma clave se suman. Los deltas en cero no tocan la fila.
func (a *StockAccessor) AdjustMany(ctx context.Context, deltas []models.StockDelta) (map[models.StockKey]int, error) {
	netos := make(map[models.StockKey]int, len(deltas))
	keys := make([]models.StockKey, 0, len(deltas))
	for _, d := range deltas {
		if err := a.validarClave(d.Tipo, d.Dueno); err != nil {
			return nil, err
		}
		if d.Delta == 0 {
			continue
		}
		if _, ok := netos[d.StockKey]; !ok {
			keys = append(keys, d.StockKey)
		}
		netos[d.StockKey] += d.Delta
	}

	nuevas := make(map[models.StockKey]int, len(keys))
	if len(keys) == 0 {
		return nuevas, nil
	}

	err := a.store.WithTx(ctx, func(tx repository.Store) error {
		actuales, err := tx.LockStock(ctx, keys)
		if err != nil {
			return fmt.Errorf("error bloqueando stock: %w", err)
		}

		orden := models.SortKeys(keys)
		for _, key := range orden {
			nueva := actuales[key] + netos[key]
			if nueva < 0 {
				return &InsufficientStockError{
					Tipo:       key.Tipo,
					Dueno:      key.Dueno,
					Disponible: actuales[key],
					Solicitado: -netos[key],
				}
			}
			nuevas[key] = nueva
		}

		for _, key := range orden {
			if err := tx.SetStock(ctx, key.Tipo, key.Dueno, nuevas[key]); err != nil {
				return fmt.Errorf("error actualizando stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nuevas, nil
}

// SetAbsolute fija la cantidad sin control de límite inferior
func (a *StockAccessor) SetAbsolute(ctx context.Context, tipo, dueno string, valor int) error {
	if err := a.validarClave(tipo, dueno); err != nil {
		return err
	}
	return a.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.LockStock(ctx, []models.StockKey{{Tipo: tipo, Dueno: dueno}}); err != nil {
			return fmt.Errorf("error bloqueando stock: %w", err)
		}
		if err := tx.SetStock(ctx, tipo, dueno, valor); err != nil {
			return fmt.Errorf("error actualizando stock: %w", err)
		}
		return nil
	})
}

// ResetAll pone todas las filas en 0. Solo lo usa el reset del sistema.
func (a *StockAccessor) ResetAll(ctx context.Context) error {
	return a.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.ResetStock(ctx); err != nil {
			return fmt.Errorf("error reseteando stock: %w", err)
		}
		return nil
	})
}
