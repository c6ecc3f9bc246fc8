package constants

// Action names for the single-endpoint router. Keep in sync with page scripts.
const (
	ActionHealthz = "healthz"
	ActionReadyz  = "readyz"

	ActionPageConnectionNew = "page_connection_new"

	ActionApiSchemaUpdate    = "api_schema_update"
	ActionApiSchemaImport    = "api_schema_import"
	ActionApiSchemaOverwrite = "api_schema_overwrite"

	ActionApiConnect        = "api_connect"
	ActionApiConnectionLoad = "api_connection_load"
	ActionApiDisconnect     = "api_disconnect"
)

// Storage backends
const (
	StorageMemory  = "memory"
	StorageGorm    = "gorm"
	StorageKeyring = "keyring"
)

// Supported SQL drivers for the gorm storage backend
const (
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	DriverSQLServer = "sqlserver"
)

const (
	// StorageKeyPrefix prefixes every persisted connection record key.
	StorageKeyPrefix = "tdb_conn_"

	// SchemaFileExtension is the only extension accepted by the schema import.
	SchemaFileExtension = ".tdb"

	// DefaultConnectionURL pre-fills the url field of the new connection form.
	DefaultConnectionURL = "ws://localhost:7085"

	// DefaultKeyringService is the keyring service name used when none is configured.
	DefaultKeyringService = "tdbdesk"
)

// Overwrite prompt decisions accepted by api_schema_overwrite
const (
	DecisionConfirm = "confirm"
	DecisionCancel  = "cancel"
)
