package types

import "time"

// Config contains the configuration for the application and its web handlers
type Config struct {
	// HTTPPort is the port to listen on
	HTTPPort int
	// BasePath is the base URL path for the application
	BasePath string
	// ActionParam is the query parameter used for actions
	ActionParam string
	// SessionSecret is the secret used for session and CSRF tokens
	SessionSecret string
	// CSRFEnabled turns on the double-submit CSRF check for POST actions
	CSRFEnabled bool
	// SecureCookies marks cookies as Secure regardless of the request scheme
	SecureCookies bool

	// ConnectTimeout bounds the websocket handshake of a connect attempt
	ConnectTimeout time.Duration

	// Storage selects and configures the durable key-value backend
	Storage StorageConfig
}

// StorageConfig selects the durable key-value backend for connection records
type StorageConfig struct {
	// Backend is one of memory, gorm, keyring
	Backend string
	// Driver is the SQL driver used by the gorm backend
	Driver string
	// DSN is the data source name used by the gorm backend
	DSN string
	// KeyringService is the service name used by the keyring backend
	KeyringService string
}
