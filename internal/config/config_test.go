package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DUENOS", "")
	t.Setenv("CEREAL_KG_BLANCO", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, []string{"Perla", "Salgado", "Ramon"}, cfg.Catalogo.Duenos)
	assert.Contains(t, cfg.Catalogo.TiposAnimal, "Terneros")
	assert.Contains(t, cfg.Catalogo.TiposAnimal, "Terneras")
	assert.Equal(t, 223600, cfg.Cereales.KgBlanco)
	assert.Equal(t, 51600, cfg.Cereales.KgNegro)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DUENOS", " Ana , Beto,, ")
	t.Setenv("CEREAL_KG_NEGRO", "1000")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"Ana", "Beto"}, cfg.Catalogo.Duenos)
	assert.Equal(t, 1000, cfg.Cereales.KgNegro)
	assert.False(t, cfg.Redis.Enabled)
}

func TestValidate(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CEREAL_KG_BLANCO", "-5")
	_, err = Load()
	assert.Error(t, err)
}
