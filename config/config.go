package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yourusername/stellar-checkout/models"
)

type Config struct {
	Port              string
	DatabaseURL       string
	CachePath         string
	StellarNetwork    string
	HorizonURL        string
	NetworkPassphrase string
	USDCIssuer        string
	JWTSecret         string
	JWTRefreshSecret  string
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	return &Config{
		Port:              os.Getenv("PORT"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CachePath:         getEnvOrDefault("CACHE_PATH", "checkout.db"),
		StellarNetwork:    getEnvOrDefault("STELLAR_NETWORK", "testnet"),
		HorizonURL:        getEnvOrDefault("HORIZON_URL", "https://horizon-testnet.stellar.org"),
		NetworkPassphrase: getEnvOrDefault("NETWORK_PASSPHRASE", "Test SDF Network ; September 2015"),
		USDCIssuer:        getEnvOrDefault("USDC_ISSUER", "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5"),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", "dev-secret"),
		JWTRefreshSecret:  getEnvOrDefault("JWT_REFRESH_SECRET", "dev-refresh-secret"),
	}, nil
}

// InitDB opens the durable cache store: postgres when DATABASE_URL is set,
// a local sqlite file otherwise.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.CachePath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	if err := db.AutoMigrate(&models.Merchant{}, &models.InvoiceRecord{}, &models.WalletSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache store: %w", err)
	}

	return db, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
