package tdbdesk

import (
	"flag"
	"fmt"
	"time"

	"github.com/dracory/env"

	"github.com/dracory/tdbdesk/shared/constants"
	"github.com/dracory/tdbdesk/shared/types"
)

// LoadConfig reads env (and an optional .env file) with sensible defaults.
// Flags in args take precedence over env.
func LoadConfig(args []string) (types.Config, error) {
	var cfg types.Config

	env.Load(".env")

	cfg.HTTPPort = env.GetIntOrDefault("HTTP_PORT", 8080)
	cfg.BasePath = env.GetStringOrDefault("BASE_URL", "/")
	cfg.SessionSecret = env.GetStringOrDefault("SESSION_SECRET", "dev-insecure-change-me")
	cfg.ActionParam = env.GetStringOrDefault("ACTION_PARAM", "action")
	cfg.CSRFEnabled = env.GetBoolOrDefault("CSRF_ENABLED", true)
	cfg.SecureCookies = env.GetBoolOrDefault("SECURE_COOKIES", false)
	cfg.ConnectTimeout = time.Duration(env.GetIntOrDefault("CONNECT_TIMEOUT", 10)) * time.Second
	cfg.Storage = types.StorageConfig{
		Backend:        env.GetStringOrDefault("STORAGE_BACKEND", constants.StorageGorm),
		Driver:         env.GetStringOrDefault("STORAGE_DRIVER", constants.DriverSQLite),
		DSN:            env.GetStringOrDefault("STORAGE_DSN", "tdbdesk.db"),
		KeyringService: env.GetStringOrDefault("KEYRING_SERVICE", constants.DefaultKeyringService),
	}

	fs := flag.NewFlagSet("tdbdesk", flag.ContinueOnError)
	port := fs.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	base := fs.String("base", cfg.BasePath, "Base path to mount handler under (e.g. /tdb)")
	backend := fs.String("storage", cfg.Storage.Backend, "Storage backend: memory, gorm or keyring")
	dsn := fs.String("dsn", cfg.Storage.DSN, "DSN for the gorm storage backend")
	timeout := fs.Duration("connect-timeout", cfg.ConnectTimeout, "Websocket handshake timeout")
	csrf := fs.Bool("csrf", cfg.CSRFEnabled, "Require CSRF tokens on POST actions")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.HTTPPort = *port
	cfg.BasePath = *base
	cfg.Storage.Backend = *backend
	cfg.Storage.DSN = *dsn
	cfg.ConnectTimeout = *timeout
	cfg.CSRFEnabled = *csrf

	if cfg.SessionSecret == "" {
		return cfg, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.HTTPPort <= 0 {
		return cfg, fmt.Errorf("invalid port: %d", cfg.HTTPPort)
	}
	return cfg, nil
}
