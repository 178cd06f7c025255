package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-matcher/internal/config"
)

func TestPoolConfig_AppliesConnectionAndPoolSettings(t *testing.T) {
	cfg := config.DatabaseConfig{
		DBHost:              " db.local ",
		DBPort:              "6543",
		DBName:              "matcher",
		DBUser:              "svc",
		DBPassword:          "p@ss word/#1",
		DBSSLMode:           "disable",
		AppName:             "matchctl",
		ConnectTimeout:      3 * time.Second,
		PoolMaxConns:        7,
		PoolMaxConnIdleTime: time.Minute,
	}

	pcfg, err := PoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.local", pcfg.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pcfg.ConnConfig.Port)
	assert.Equal(t, "matcher", pcfg.ConnConfig.Database)
	assert.Equal(t, "svc", pcfg.ConnConfig.User)
	assert.Equal(t, "p@ss word/#1", pcfg.ConnConfig.Password)
	assert.Equal(t, "matchctl", pcfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, 3*time.Second, pcfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, int32(7), pcfg.MaxConns)
	assert.Equal(t, time.Minute, pcfg.MaxConnIdleTime)
}

func TestPoolConfig_ZeroValuesKeepDefaults(t *testing.T) {
	base, err := PoolConfig(config.DatabaseConfig{DBHost: "db", DBPort: "5432", DBName: "m", DBUser: "u"})
	require.NoError(t, err)

	assert.Positive(t, base.MaxConns)
	assert.Equal(t, int32(0), base.MinConns)
	assert.Positive(t, base.HealthCheckPeriod)
	_, hasApp := base.ConnConfig.RuntimeParams["application_name"]
	assert.False(t, hasApp)
}

func TestPoolConfig_RejectsBadPort(t *testing.T) {
	_, err := PoolConfig(config.DatabaseConfig{DBHost: "db", DBPort: "not-a-port", DBName: "m", DBUser: "u"})
	require.Error(t, err)
}

func TestPool_ClosedPoolFailsWithoutPanicking(t *testing.T) {
	ctx := context.Background()
	var p *Pool

	assert.ErrorIs(t, p.Ping(ctx), errClosed)
	assert.NoError(t, p.Close())
	_, err := p.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errClosed)
	_, err = p.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errClosed)
	var n int
	assert.ErrorIs(t, p.QueryRow(ctx, "SELECT 1").Scan(&n), errClosed)
	_, err = p.Begin(ctx)
	assert.ErrorIs(t, err, errClosed)
}
