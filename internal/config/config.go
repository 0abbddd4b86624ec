package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Agenda        AgendaConfig        `mapstructure:"agenda"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Log           LogConfig           `mapstructure:"log"`
	Clinic        ClinicConfig        `mapstructure:"clinic"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects connected mode when URL is set.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
}

type StorageConfig struct {
	// Dir holds prontuario attachments. Empty keeps them in memory.
	Dir string `mapstructure:"dir"`
}

type NotificationsConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type AgendaConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type ClinicConfig struct {
	// Dentists are offered by the appointment form; the first is the default.
	Dentists []string `mapstructure:"dentists"`
	Timezone string   `mapstructure:"timezone"`
}

// env holds the ODONTO_* overrides. Unset variables leave the file value alone.
type env struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`
	Port        int    `envconfig:"PORT"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	StorageDir  string `envconfig:"STORAGE_DIR"`
	Timezone    string `envconfig:"TIMEZONE"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", "100ms")
	v.SetDefault("notifications.refresh_interval", "30s")
	v.SetDefault("agenda.tick_interval", "60s")
	v.SetDefault("agenda.cache_ttl", "1m")
	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("clinic.dentists", []string{
		"Dra. Ana Letícia", "Dr. Carlos Silva", "Dra. Fernanda Lima", "Dr. Pedro Alves",
	})
	v.SetDefault("clinic.timezone", "America/Sao_Paulo")
}

// LoadConfig reads an optional .env, then config.yml (file, when given, wins
// over the search path), then ODONTO_* overrides.
func LoadConfig(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var e env
	if err := envconfig.Process("ODONTO", &e); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	config.apply(e)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) apply(e env) {
	if e.DatabaseURL != "" {
		c.Database.URL = e.DatabaseURL
	}
	if e.RedisURL != "" {
		c.Redis.URL = e.RedisURL
	}
	if e.Port != 0 {
		c.Server.Port = e.Port
	}
	if e.LogLevel != "" {
		c.Log.Level = e.LogLevel
	}
	if e.StorageDir != "" {
		c.Storage.Dir = e.StorageDir
	}
	if e.Timezone != "" {
		c.Clinic.Timezone = e.Timezone
	}
}

func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if len(c.Clinic.Dentists) == 0 {
		problems = append(problems, "clinic.dentists is empty")
	}
	if _, err := time.LoadLocation(c.Clinic.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("clinic.timezone: %v", err))
	}
	if c.Notifications.RefreshInterval <= 0 {
		problems = append(problems, "notifications.refresh_interval must be positive")
	}
	if c.Agenda.TickInterval <= 0 {
		problems = append(problems, "agenda.tick_interval must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location is the clinic's timezone; Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Clinic.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Demo reports whether the in-memory fixture store should be used.
func (c *Config) Demo() bool {
	return c.Database.URL == ""
}
