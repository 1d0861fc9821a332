package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the server needs from the environment.
// Handlers receive the fields they use through their constructors,
// nothing reads viper after startup.
type Config struct {
	DSN                 string `mapstructure:"DSN"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	GatewayClientID     string `mapstructure:"GATEWAY_CLIENT_ID"`
	GatewayClientSecret string `mapstructure:"GATEWAY_CLIENT_SECRET"`
	GatewayBaseURL      string `mapstructure:"GATEWAY_BASE_URL"`
	// Optional. Webhook signature checks are skipped when empty.
	GatewayWebhookSecret string `mapstructure:"GATEWAY_WEBHOOK_SECRET"`
	AppURL               string `mapstructure:"APP_URL"`
	// Comma-separated emails granted the admin role at login.
	AdminEmails       string `mapstructure:"ADMIN_EMAILS"`
	PendingTTLMinutes int    `mapstructure:"PENDING_TTL_MINUTES"`
}

// Load reads config.env from the working directory, letting real
// environment variables override file values.
func Load() (config Config, err error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("PENDING_TTL_MINUTES", 60)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

// Validate reports which required keys are missing.
func (c Config) Validate() error {
	missing := []string{}
	if c.DSN == "" {
		missing = append(missing, "DSN")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.GatewayClientID == "" {
		missing = append(missing, "GATEWAY_CLIENT_ID")
	}
	if c.GatewayClientSecret == "" {
		missing = append(missing, "GATEWAY_CLIENT_SECRET")
	}
	if c.GatewayBaseURL == "" {
		missing = append(missing, "GATEWAY_BASE_URL")
	}
	if c.AppURL == "" {
		missing = append(missing, "APP_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AdminSet parses ADMIN_EMAILS into a lookup set. Emails are compared
// case-insensitively.
func (c Config) AdminSet() map[string]bool {
	set := make(map[string]bool)
	for _, e := range strings.Split(c.AdminEmails, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = true
		}
	}
	return set
}
