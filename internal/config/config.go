package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Config holds the full application configuration. It is built once at
// startup and passed by reference into every component that needs it.
type Config struct {
	App      AppConfig      `json:"app"`
	MySQL    MySQLConfig    `json:"mysql"`
	Security SecurityConfig `json:"security"`
	Admin    AdminConfig    `json:"admin"`
}

// AppConfig carries process-wide basics.
type AppConfig struct {
	Env      string `json:"env"`       // runtime environment: local / prod
	LogLevel string `json:"log_level"` // log level: debug / info / warn / error
	HTTPAddr string `json:"http_addr"` // listen address
}

// MySQLConfig carries the database connection settings.
type MySQLConfig struct {
	DSN string `json:"dsn"` // database connection string
}

// SecurityConfig carries token signing settings, fixed at startup.
type SecurityConfig struct {
	JWTSecret     string        `json:"jwt_secret"`     // JWT signing key
	TokenLifetime time.Duration `json:"token_lifetime"` // bearer token validity window
}

// AdminConfig describes the bootstrap administrator seeded when no
// admin account exists yet.
type AdminConfig struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Load reads configs/config.json (or the given path), applies defaults
// for unset fields and lets environment variables override the result.
// A missing config file is not an error.
func Load(configPath ...string) (*Config, error) {
	path := "configs/config.json"
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := getDefaultConfig()
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

func getDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:      "local",
			LogLevel: "info",
			HTTPAddr: ":8080",
		},
		MySQL: MySQLConfig{
			DSN: "root:password@tcp(localhost:3306)/songhub?parseTime=true&loc=Local",
		},
		Security: SecurityConfig{
			JWTSecret:     "dev_secret_change_me",
			TokenLifetime: 24 * time.Hour,
		},
		Admin: AdminConfig{
			Name:     "admin",
			Email:    "admin@admin.com",
			Password: "",
			Role:     "admin",
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := getDefaultConfig()

	if cfg.App.Env == "" {
		cfg.App.Env = defaults.App.Env
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = defaults.App.LogLevel
	}
	if cfg.App.HTTPAddr == "" {
		cfg.App.HTTPAddr = defaults.App.HTTPAddr
	}
	if cfg.MySQL.DSN == "" {
		cfg.MySQL.DSN = defaults.MySQL.DSN
	}
	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = defaults.Security.JWTSecret
	}
	if cfg.Security.TokenLifetime == 0 {
		cfg.Security.TokenLifetime = defaults.Security.TokenLifetime
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = defaults.Admin.Name
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = defaults.Admin.Email
	}
	if cfg.Admin.Role == "" {
		cfg.Admin.Role = defaults.Admin.Role
	}
}

func applyEnvOverrides(cfg *Config) {
	viper.AutomaticEnv()

	_ = viper.BindEnv("db_host", "DB_HOST")
	_ = viper.BindEnv("db_password", "DB_PASSWORD")
	_ = viper.BindEnv("jwt_secret", "JWT_SECRET")
	_ = viper.BindEnv("admin_password", "ADMIN_PASSWORD")

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("APP_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("APP_HTTP_ADDR"); v != "" {
		cfg.App.HTTPAddr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.App.HTTPAddr = ":" + v
	}

	if v := viper.GetString("jwt_secret"); v != "" {
		cfg.Security.JWTSecret = v
	}
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Security.TokenLifetime = d
		}
	}

	if v := os.Getenv("ADMIN_NAME"); v != "" {
		cfg.Admin.Name = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.Admin.Email = v
	}
	if v := viper.GetString("admin_password"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("ADMIN_ROLE"); v != "" {
		cfg.Admin.Role = v
	}

	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.MySQL.DSN = v
	} else if hasAnyEnv("DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME") || viper.GetString("db_host") != "" {
		parsed := parseMySQLDSN(cfg.MySQL.DSN)
		if v := viper.GetString("db_host"); v != "" {
			port := getenvDefault("DB_PORT", parsed.Addr, "3306")
			parsed.Addr = v + ":" + port
		} else if v := os.Getenv("DB_PORT"); v != "" {
			host := parsed.Addr
			if strings.Contains(host, ":") {
				host = strings.Split(host, ":")[0]
			}
			parsed.Addr = host + ":" + v
		}
		if v := os.Getenv("DB_USER"); v != "" {
			parsed.User = v
		}
		if v := viper.GetString("db_password"); v != "" {
			parsed.Passwd = v
		}
		if v := os.Getenv("DB_NAME"); v != "" {
			parsed.DBName = v
		}
		cfg.MySQL.DSN = parsed.FormatDSN()
	}
}

func hasAnyEnv(keys ...string) bool {
	for _, key := range keys {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

func getenvDefault(envKey, fallbackAddr, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if strings.Contains(fallbackAddr, ":") {
		parts := strings.Split(fallbackAddr, ":")
		if len(parts) == 2 && parts[1] != "" {
			return parts[1]
		}
	}
	return defaultValue
}

func parseMySQLDSN(dsn string) *mysql.Config {
	fallback := &mysql.Config{
		User:   "root",
		Net:    "tcp",
		Addr:   "localhost:3306",
		DBName: "songhub",
		Params: map[string]string{
			"parseTime": "true",
			"loc":       "Local",
		},
	}
	if dsn == "" {
		return fallback
	}
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return fallback
	}
	return parsed
}

// UnmarshalJSON accepts the token lifetime as a duration string ("24h").
func (s *SecurityConfig) UnmarshalJSON(data []byte) error {
	type Alias SecurityConfig
	aux := &struct {
		TokenLifetime string `json:"token_lifetime"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.TokenLifetime != "" {
		d, err := time.ParseDuration(aux.TokenLifetime)
		if err != nil {
			return fmt.Errorf("invalid token_lifetime format: %w", err)
		}
		s.TokenLifetime = d
	}
	return nil
}

// MarshalJSON renders the token lifetime as a duration string.
func (s SecurityConfig) MarshalJSON() ([]byte, error) {
	type Alias SecurityConfig
	return json.Marshal(&struct {
		TokenLifetime string `json:"token_lifetime"`
		*Alias
	}{
		TokenLifetime: s.TokenLifetime.String(),
		Alias:         (*Alias)(&s),
	})
}
