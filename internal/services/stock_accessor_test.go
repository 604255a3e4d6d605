package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramivilla/DonJose/internal/models"
)

func TestStockAccessorAdjust(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	acc := e.motor.Accessor()

	nueva, err := acc.Adjust(ctx, "Vacas", "Perla", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, nueva)

	nueva, err = acc.Adjust(ctx, "Vacas", "Perla", -7)
	require.NoError(t, err)
	assert.Equal(t, 0, nueva)
}

func TestStockAccessorAdjustRechazaNegativo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Toro", "Salgado", 2)

	_, err := e.motor.Accessor().Adjust(ctx, "Toro", "Salgado", -3)
	require.ErrorIs(t, err, ErrInsufficientStock)

	var insuf *InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, 2, insuf.Disponible)
	assert.Equal(t, 3, insuf.Solicitado)
	assert.Equal(t, 2, e.cantidad(t, "Toro", "Salgado"))
}

func TestStockAccessorClaveDesconocida(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.motor.Accessor().Adjust(ctx, "Caballos", "Perla", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.motor.Accessor().GetQuantity(ctx, "Vacas", "Desconocido")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStockAccessorAdjustManyEsTodoONada(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Terneros", "Ramon", 5)
	e.fijar(t, "Terneras", "Ramon", 1)

	_, err := e.motor.Accessor().AdjustMany(ctx, []models.StockDelta{
		{StockKey: models.StockKey{Tipo: "Terneros", Dueno: "Ramon"}, Delta: -2},
		{StockKey: models.StockKey{Tipo: "Terneras", Dueno: "Ramon"}, Delta: -2},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 5, e.cantidad(t, "Terneros", "Ramon"))
	assert.Equal(t, 1, e.cantidad(t, "Terneras", "Ramon"))
}

func TestStockAccessorAdjustManySumaClavesRepetidas(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	key := models.StockKey{Tipo: "Novillo", Dueno: "Perla"}

	nuevas, err := e.motor.Accessor().AdjustMany(ctx, []models.StockDelta{
		{StockKey: key, Delta: 4},
		{StockKey: key, Delta: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, nuevas[key])
}

func TestStockAccessorSetAbsolutePermiteNegativo(t *testing.T) {
	e := nuevoEntorno(t)
	e.fijar(t, "Vacas viejas", "Salgado", -4)
	assert.Equal(t, -4, e.cantidad(t, "Vacas viejas", "Salgado"))
}

func TestStockAccessorConcurrencia(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Vacas", "Ramon", 10)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		exitos     int
		rechazados int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.motor.Accessor().Adjust(ctx, "Vacas", "Ramon", -1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				exitos++
			} else if assert.ErrorIs(t, err, ErrInsufficientStock) {
				rechazados++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, exitos)
	assert.Equal(t, 15, rechazados)
	assert.Equal(t, 0, e.cantidad(t, "Vacas", "Ramon"))
}
