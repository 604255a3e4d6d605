package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sistemaFake struct {
	anios []int
	err   error
}

func (f *sistemaFake) InicializarAnio(ctx context.Context, anio int) error {
	f.anios = append(f.anios, anio)
	return f.err
}

func TestInicializarAnioUsaElAnioActual(t *testing.T) {
	fake := &sistemaFake{}
	s := NewScheduler("5 0 1 1 *", fake, zap.NewNop())
	s.now = func() time.Time { return time.Date(2031, time.January, 1, 0, 5, 0, 0, time.UTC) }

	s.inicializarAnio()
	assert.Equal(t, []int{2031}, fake.anios)
}

func TestInicializarAnioNoEntraEnPanicoConError(t *testing.T) {
	fake := &sistemaFake{err: errors.New("db caída")}
	s := NewScheduler("5 0 1 1 *", fake, nil)

	assert.NotPanics(t, s.inicializarAnio)
	assert.Len(t, fake.anios, 1)
}

func TestStartRechazaExpresionInvalida(t *testing.T) {
	s := NewScheduler("cada año", &sistemaFake{}, zap.NewNop())
	assert.Error(t, s.Start())
}

func TestStartYStop(t *testing.T) {
	s := NewScheduler("@yearly", &sistemaFake{}, zap.NewNop())
	require.NoError(t, s.Start())
	require.Len(t, s.cron.Entries(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
