package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Env:              "development",
		TeamID:           "ABCDE12345",
		PassTypeID:       "pass.com.funnelkit.wallet",
		OrganizationName: "Harbor Realty",
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"BIND", "APP_ENV", "PASS_MAX_AGE_DAYS", "PASS_ALLOW_UPDATES", "APNS_HOST"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8082", cfg.Bind)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 365*24*time.Hour, cfg.MaxLifetime)
	assert.True(t, cfg.AllowUpdates)
	assert.Equal(t, "https://api.push.apple.com", cfg.APNSHost)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PASS_MAX_AGE_DAYS", "30")
	t.Setenv("PASS_ALLOW_UPDATES", "false")
	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*24*time.Hour, cfg.MaxLifetime)
	assert.False(t, cfg.AllowUpdates)
}

func TestLoadBadMaxAgeFallsBack(t *testing.T) {
	t.Setenv("PASS_MAX_AGE_DAYS", "not-a-number")
	assert.Equal(t, 365*24*time.Hour, Load().MaxLifetime)

	t.Setenv("PASS_MAX_AGE_DAYS", "-3")
	assert.Equal(t, 365*24*time.Hour, Load().MaxLifetime)
}

func TestValidateAccepts(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateTeamID(t *testing.T) {
	for _, id := range []string{"", "SHORT", "WAYTOOLONG1234"} {
		cfg := validConfig()
		cfg.TeamID = id
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "teamIdentifier must be exactly 10 characters")
	}
}

func TestValidatePassTypeID(t *testing.T) {
	cfg := validConfig()
	cfg.PassTypeID = "com.funnelkit.wallet"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass.")
}

func TestValidateOrganizationName(t *testing.T) {
	cfg := validConfig()
	cfg.OrganizationName = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "organizationName is required")
}

func TestValidateProductionPlaceholders(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webServiceURL is required in production")

	cfg.WebServiceURL = "https://example.com/passes"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `placeholder value "example.com"`)

	cfg.WebServiceURL = "https://passes.funnelkit.io"
	assert.NoError(t, cfg.Validate())

	// Development skips the host checks entirely.
	dev := validConfig()
	dev.WebServiceURL = "http://localhost:8082"
	assert.NoError(t, dev.Validate())
}
