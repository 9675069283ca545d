package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RabbitMQConfig struct {
	URL string
}

type RESTConfig struct {
	Port string
}

type InventoryConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

type SyncConfig struct {
	Workers        int
	EquivalenceDir string
	AuditDir       string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName      string
	RabbitMQ     RabbitMQConfig
	Rest         RESTConfig
	Inventory    InventoryConfig
	Sync         SyncConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig loads the configuration from environment variables, optionally
// seeded from a .env file.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// Absent .env is fine in containers; real env vars still apply.
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "rental-sync-service")

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Rest.Port = getEnvAsString("PORT", "5000")

	cfg.Inventory.BaseURL = os.Getenv("INVENTORY_API_URL")
	if cfg.Inventory.BaseURL == "" {
		return nil, fmt.Errorf("INVENTORY_API_URL environment variable is required")
	}
	cfg.Inventory.APIKey = getEnvAsString("INVENTORY_API_KEY", "")
	cfg.Inventory.TimeoutSeconds = getEnvAsInt("INVENTORY_API_TIMEOUT_SECONDS", 15)

	cfg.Sync.Workers = getEnvAsInt("SYNC_WORKERS", 4)
	cfg.Sync.EquivalenceDir = getEnvAsString("EQUIVALENCE_DIR", "./equivalences")
	cfg.Sync.AuditDir = getEnvAsString("AUDIT_DIR", "./audit")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an env var as int, falling back to the default and
// logging when the value cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
