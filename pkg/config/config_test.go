package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, "caja-principal", cfg.Caja.DefaultID)
	assert.True(t, cfg.Caja.NotesThreshold.Equal(decimal.NewFromInt(50)))
	assert.True(t, cfg.Consumo.FallbackToAll)
	assert.Equal(t, "@every 15m", cfg.Scheduler.StockAlerts)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE", "Memory")
	v.Set("CORTE_NOTES_THRESHOLD", "25.5")
	v.Set("CONSUMPTION_FALLBACK_ALL", "false")
	v.Set("DB_MIGRATE", "true")
	v.Set("HTTP_PORT", "9090")
	v.Set("SCHEDULER_STOCK_ALERTS", "")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage)
	assert.True(t, cfg.Caja.NotesThreshold.Equal(decimal.RequireFromString("25.5")))
	assert.False(t, cfg.Consumo.FallbackToAll)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Empty(t, cfg.Scheduler.StockAlerts)
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("CORTE_NOTES_THRESHOLD", "cincuenta")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("CORTE_NOTES_THRESHOLD", "-1")
	_, err = fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("STORAGE", "redis")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "imprenta", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/imprenta?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u@h/d"
	assert.Equal(t, "postgres://u@h/d", c.ConnectionString())
}
