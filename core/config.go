package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName          string
		Build            string
		Env              string // DEV (local; default), TEST, QA, PROD
		Debug            bool
		TestMode         bool
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		RollbarToken     string
		SendgridApiKey   string

		Server        ServerConfig
		Database      DatabaseConfig
		Redis         RedisConfig
		Listing       ListingConfig
		Payroll       PayrollConfig
		Notifications NotificationsConfig
	}

	ServerConfig struct {
		Host               string
		Address            string
		DebugAddress       string
		ShutdownTimeout    time.Duration
		DisableRequestLogs bool
	}

	DatabaseConfig struct {
		Engine        string // postgres | memory
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Address  string // empty: in-memory store
		Password string
		DB       int
	}

	ListingConfig struct {
		MaxPageSize int
	}

	PayrollConfig struct {
		ProcessingDelay time.Duration
	}

	NotificationsConfig struct {
		Retention     time.Duration
		PurgeSchedule string
	}
)

func (db DatabaseConfig) Address() string {
	return db.Host + ":" + db.Port
}

func (db DatabaseConfig) InMemory() bool {
	return strings.EqualFold(db.Engine, "memory")
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` (if any) and the environment.
// Environment variables are prefixed with the current env, e.g. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("test_mode", false)
	v.SetDefault("app_name", "Akademi")
	v.SetDefault("build", "develop")
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("default_from_email", "Akademi <noreply@localhost>")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debug_address", ":4000")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.disable_request_logs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "akademi")
	v.SetDefault("database.user", "akademi")
	v.SetDefault("database.password", "akademi")
	v.SetDefault("database.admin_user", "postgres")
	v.SetDefault("database.admin_password", "")
	v.SetDefault("database.disable_tls", true)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("listing.max_page_size", 100)
	v.SetDefault("payroll.processing_delay", 2*time.Second)
	v.SetDefault("notifications.retention", 30*24*time.Hour)
	v.SetDefault("notifications.purge_schedule", "@daily")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("test_mode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("default_from_email"))
	if err != nil {
		log.Fatalf("config.default_from_email: %v", err)
	}

	return &Config{
		AppName:          v.GetString("app_name"),
		Build:            v.GetString("build"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("test_mode"),
		WorkDir:          wd,
		FrontendBaseURL:  v.GetString("frontend_url"),
		DefaultFromEmail: *from,
		RollbarToken:     v.GetString("rollbar_token"),
		SendgridApiKey:   v.GetString("sendgrid_api_key"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			DebugAddress:       v.GetString("server.debug_address"),
			ShutdownTimeout:    v.GetDuration("server.shutdown_timeout"),
			DisableRequestLogs: v.GetBool("server.disable_request_logs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.admin_user"),
			AdminPassword: v.GetString("database.admin_password"),
			DisableTLS:    v.GetBool("database.disable_tls"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Listing: ListingConfig{
			MaxPageSize: v.GetInt("listing.max_page_size"),
		},
		Payroll: PayrollConfig{
			ProcessingDelay: v.GetDuration("payroll.processing_delay"),
		},
		Notifications: NotificationsConfig{
			Retention:     v.GetDuration("notifications.retention"),
			PurgeSchedule: v.GetString("notifications.purge_schedule"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no env lookups, in-memory storage, no delays.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "Akademi",
		Build:            "test",
		Env:              "TEST",
		Debug:            false,
		TestMode:         true,
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Akademi", Address: "noreply@localhost"},
		Server:           ServerConfig{Address: ":0", ShutdownTimeout: time.Second, DisableRequestLogs: true},
		Database:         DatabaseConfig{Engine: "memory"},
		Listing:          ListingConfig{MaxPageSize: 100},
		Notifications:    NotificationsConfig{Retention: 30 * 24 * time.Hour, PurgeSchedule: "@daily"},
	}
}
