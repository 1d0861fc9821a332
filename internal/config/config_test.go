package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		DSN:                 "postgres://localhost/events",
		JWTSecret:           "secret",
		GatewayClientID:     "id",
		GatewayClientSecret: "secret",
		GatewayBaseURL:      "https://gw.example.com",
		AppURL:              "https://events.example.com",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.DSN = ""
	cfg.AppURL = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
	assert.Contains(t, err.Error(), "APP_URL")
}

func TestAdminSet(t *testing.T) {
	cfg := Config{AdminEmails: "Admin@Example.com, other@example.com ,,"}
	set := cfg.AdminSet()

	assert.True(t, set["admin@example.com"])
	assert.True(t, set["other@example.com"])
	assert.False(t, set[""])
	assert.Len(t, set, 2)
}
