package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	pages "go-currency-pages"
)

// Config holds application configuration.
type Config struct {
	Port            string
	RatesURL        string
	BaseCurrency    pages.Currency
	RefreshInterval time.Duration
	TemplatePath    string
	StaticDir       string
	AssetBase       string
	BrowserTTL      time.Duration
	EdgeTTL         time.Duration
}

// Load reads configuration from environment variables, with a .env file as
// a fallback when present.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("RATES_URL", "https://open.er-api.com/v6")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("REFRESH_INTERVAL", "1h")
	viper.SetDefault("TEMPLATE_PATH", "assets/template.html")
	viper.SetDefault("STATIC_DIR", "assets/static")
	viper.SetDefault("ASSET_BASE", "/static")
	viper.SetDefault("BROWSER_TTL", "1h")
	viper.SetDefault("EDGE_TTL", "24h")

	viper.AutomaticEnv()

	base, err := pages.ParseCurrency(viper.GetString("BASE_CURRENCY"))
	if err != nil {
		return nil, fmt.Errorf("BASE_CURRENCY: %w", err)
	}

	cfg := &Config{
		Port:            viper.GetString("PORT"),
		RatesURL:        viper.GetString("RATES_URL"),
		BaseCurrency:    base,
		RefreshInterval: viper.GetDuration("REFRESH_INTERVAL"),
		TemplatePath:    viper.GetString("TEMPLATE_PATH"),
		StaticDir:       viper.GetString("STATIC_DIR"),
		AssetBase:       viper.GetString("ASSET_BASE"),
		BrowserTTL:      viper.GetDuration("BROWSER_TTL"),
		EdgeTTL:         viper.GetDuration("EDGE_TTL"),
	}

	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive, got %v", cfg.RefreshInterval)
	}

	return cfg, nil
}
