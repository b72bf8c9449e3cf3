package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Elastic  ElasticConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Here     HereConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type ElasticConfig struct {
	Addresses     []string
	Username      string
	Password      string
	LocationIndex string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SearchCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled        bool
	PollInterval   time.Duration
	ResyncSchedule string
}

type HereConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	CenterLat      float64
	CenterLon      float64
	LatRange       float64
	LonRange       float64
	CellRadiusKm   float64
	GridStepKm     float64
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Elastic: ElasticConfig{
			Addresses:     parseList(viper.GetString("ES_ADDRESSES")),
			Username:      viper.GetString("ES_USERNAME"),
			Password:      viper.GetString("ES_PASSWORD"),
			LocationIndex: viper.GetString("ES_LOCATION_INDEX"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SearchCacheTTL: time.Duration(viper.GetInt("SEARCH_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:        viper.GetBool("WORKER_ENABLED"),
			PollInterval:   time.Duration(viper.GetInt("WORKER_POLL_INTERVAL")) * time.Second,
			ResyncSchedule: viper.GetString("WORKER_RESYNC_SCHEDULE"),
		},
		Here: HereConfig{
			BaseURL:        viper.GetString("HERE_BASE_URL"),
			APIKey:         viper.GetString("HERE_API_KEY"),
			RequestTimeout: time.Duration(viper.GetInt("HERE_REQUEST_TIMEOUT")) * time.Second,
			CenterLat:      viper.GetFloat64("HERE_CENTER_LAT"),
			CenterLon:      viper.GetFloat64("HERE_CENTER_LON"),
			LatRange:       viper.GetFloat64("HERE_LAT_RANGE"),
			LonRange:       viper.GetFloat64("HERE_LON_RANGE"),
			CellRadiusKm:   viper.GetFloat64("HERE_CELL_RADIUS_KM"),
			GridStepKm:     viper.GetFloat64("HERE_GRID_STEP_KM"),
		},
	}

	// Set default values if not provided
	if len(cfg.Elastic.Addresses) == 0 {
		cfg.Elastic.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.Elastic.LocationIndex == "" {
		cfg.Elastic.LocationIndex = "locations"
	}
	if cfg.Cache.SearchCacheTTL == 0 {
		cfg.Cache.SearchCacheTTL = 60 * time.Second
	}
	if cfg.Worker.PollInterval == 0 {
		cfg.Worker.PollInterval = 6 * time.Hour
	}
	if cfg.Worker.ResyncSchedule == "" {
		cfg.Worker.ResyncSchedule = "0 3 * * *"
	}
	if cfg.Here.BaseURL == "" {
		cfg.Here.BaseURL = "https://browse.search.hereapi.com/v1"
	}
	if cfg.Here.RequestTimeout == 0 {
		cfg.Here.RequestTimeout = 30 * time.Second
	}
	if cfg.Here.CellRadiusKm == 0 {
		cfg.Here.CellRadiusKm = 10
	}
	if cfg.Here.GridStepKm == 0 {
		cfg.Here.GridStepKm = 8
	}

	return cfg, nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
