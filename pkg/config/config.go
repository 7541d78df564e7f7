package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Reference ReferenceConfig
	Cluster   ClusterConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	ConnectAttempts uint
}

type ReferenceConfig struct {
	// csv or postgres
	Source  string
	CSVPath string
}

type ClusterConfig struct {
	K               int
	Seed            int64
	NInit           int
	MaxIter         int
	Mode            string
	CanonicalLabels bool
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

const (
	ReferenceSourceCSV      = "csv"
	ReferenceSourcePostgres = "postgres"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Screen Time Break Recommender"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "screen_time"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			ConnectAttempts: uint(getEnvInt("DB_CONNECT_ATTEMPTS", 5, &errs)),
		},
		Reference: ReferenceConfig{
			Source:  strings.ToLower(getEnv("REFERENCE_SOURCE", ReferenceSourceCSV)),
			CSVPath: getEnv("REFERENCE_CSV_PATH", "data/mobile_screen_time.csv"),
		},
		Cluster: ClusterConfig{
			K:               getEnvInt("CLUSTER_K", 3, &errs),
			Seed:            int64(getEnvInt("CLUSTER_SEED", 42, &errs)),
			NInit:           getEnvInt("CLUSTER_N_INIT", 10, &errs),
			MaxIter:         getEnvInt("CLUSTER_MAX_ITER", 300, &errs),
			Mode:            strings.ToLower(getEnv("CLUSTER_MODE", "recompute")),
			CanonicalLabels: getEnvBool("CLUSTER_CANONICAL_LABELS", true, &errs),
		},
		Cache: CacheConfig{
			Size: getEnvInt("EVAL_CACHE_SIZE", 0, &errs),
			TTL:  getEnvDuration("EVAL_CACHE_TTL", time.Hour, &errs),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	switch cfg.Reference.Source {
	case ReferenceSourceCSV:
		if cfg.Reference.CSVPath == "" {
			return nil, errors.New("missing reference csv path")
		}
	case ReferenceSourcePostgres:
		if cfg.Database.Password == "" {
			return nil, errors.New("missing database password")
		}
	default:
		return nil, fmt.Errorf("unknown reference source %q", cfg.Reference.Source)
	}

	if cfg.Cluster.K <= 0 {
		return nil, errors.New("cluster count must be positive")
	}

	if cfg.Cache.Size < 0 {
		return nil, errors.New("cache size must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int, errs *[]error) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool, errs *[]error) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}
	return d
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
