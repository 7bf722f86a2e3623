package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevJWTSecret signs tokens in development when JWT_SECRET is unset.
const DevJWTSecret = "dev-secret-change-me"

// Store backends accepted by STORE_BACKEND.
const (
	BackendAuto   = "auto"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth  AuthConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	Jobs  JobsConfig

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

type AuthConfig struct {
	JWTSecret           string        `env:"JWT_SECRET"`
	TokenTTL            time.Duration `env:"TOKEN_TTL, default=24h"`
	BootstrapAdminEmail string        `env:"BOOTSTRAP_ADMIN_EMAIL"`
}

type StoreConfig struct {
	Backend  string `env:"STORE_BACKEND,  default=auto"`
	SeedDemo bool   `env:"SEED_DEMO_DATA, default=true"`
	// DemoPassword is the login password of the seeded demo users.
	DemoPassword string `env:"DEMO_PASSWORD, default=demo123"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,  default=entregadores67"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=5s"`
}

// RedisConfig is optional: an empty Addr keeps the ingestion guard in process.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type JobsConfig struct {
	AuditWorkers  int    `env:"AUDIT_WORKERS,  default=4"`
	StatsSchedule string `env:"STATS_SCHEDULE, default=@every 30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("config: JWT_SECRET is required outside development")
		}
		c.Auth.JWTSecret = DevJWTSecret
	}
	switch strings.ToLower(c.Store.Backend) {
	case BackendAuto, BackendMongo, BackendMemory:
		c.Store.Backend = strings.ToLower(c.Store.Backend)
	default:
		return fmt.Errorf("config: STORE_BACKEND must be one of auto, mongo, memory (got %q)", c.Store.Backend)
	}
	if c.Jobs.AuditWorkers <= 0 {
		return fmt.Errorf("config: AUDIT_WORKERS must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
