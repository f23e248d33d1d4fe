package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fleet-allocation-service/internal/domain"
)

type Config struct {
	// Server
	ServerPort string
	Debug      bool

	// Storage
	DBPath      string
	DatabaseURL string
	RedisAddr   string
	SeedPath    string

	// Uploaded datasets
	DatasetDir       string
	DefaultDataset   string
	RoutesTable      string
	AssignmentsTable string
	PaceDataset      string
	PaceTable        string

	// Allocation
	PartnerFilter       string
	OperationalSentinel string
	MappingFile         string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:          getEnv("PORT", "8080"),
		Debug:               getEnv("DEBUG", "") != "",
		DBPath:              getEnv("DB_PATH", "data/app.db"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		SeedPath:            getEnv("SEED_PATH", "data/seeds/roster.json"),
		DatasetDir:          getEnv("DATASET_DIR", "data/uploads"),
		DefaultDataset:      getEnv("DEFAULT_DATASET", ""),
		RoutesTable:         getEnv("ROUTES_TABLE", "Routes"),
		AssignmentsTable:    getEnv("ASSIGNMENTS_TABLE", "Assignments"),
		PaceDataset:         getEnv("PACE_DATASET", ""),
		PaceTable:           getEnv("PACE_TABLE", "Pace"),
		PartnerFilter:       getEnv("PARTNER_FILTER", ""),
		OperationalSentinel: getEnv("OPERATIONAL_SENTINEL", "Y"),
		MappingFile:         os.Getenv("CATEGORY_MAPPING_FILE"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DefaultCategoryMapping is the compiled-in service-type table. The nursery
// route substring fallback lives in the mapper itself, not here.
func DefaultCategoryMapping() map[string]domain.Category {
	return map[string]domain.Category{
		"Standard Parcel - Extra Large Van - US": domain.CategoryExtraLarge,
		"Standard Parcel - Large Van":            domain.CategoryLarge,
		"Standard Parcel Step Van - US":          domain.CategoryStepVan,
	}
}

// CategoryMapping returns the mapping table, overridden from the configured
// JSON file when one is set. The file holds service type → category name.
func (c *Config) CategoryMapping() (map[string]domain.Category, error) {
	if c.MappingFile == "" {
		return DefaultCategoryMapping(), nil
	}

	bytes, err := os.ReadFile(c.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("category mapping: read %q: %w", c.MappingFile, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("category mapping: parse %q: %w", c.MappingFile, err)
	}

	mapping := make(map[string]domain.Category, len(raw))
	for serviceType, category := range raw {
		mapping[serviceType] = domain.Category(category)
	}
	return mapping, nil
}
