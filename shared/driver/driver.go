package driver

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dracory/tdbdesk/shared/constants"
)

// Validator checks storage drivers against the registry of enabled ones
type Validator struct {
	drivers Registry
}

// NewValidator creates a new driver validator
func NewValidator(drivers Registry) *Validator {
	return &Validator{
		drivers: drivers,
	}
}

// Validate checks if a driver is valid and enabled
func (v *Validator) Validate(name string) error {
	if name == "" {
		return errors.New("driver is required")
	}
	if !v.drivers.IsEnabled(NormalizeDriver(name)) {
		return fmt.Errorf("driver not enabled: %s", name)
	}
	return nil
}

// NormalizeDriver normalizes common driver aliases to canonical names.
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "pg", "postgresql":
		return constants.DriverPostgres
	case "mariadb":
		return constants.DriverMySQL
	case "sqlite3":
		return constants.DriverSQLite
	case "mssql":
		return constants.DriverSQLServer
	default:
		return strings.ToLower(strings.TrimSpace(d))
	}
}

// OpenDBWithDSN opens a database connection using the specified driver and DSN
func OpenDBWithDSN(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch NormalizeDriver(driver) {
	case constants.DriverPostgres:
		return gorm.Open(postgres.Open(dsn), cfg)
	case constants.DriverMySQL:
		return gorm.Open(mysql.Open(dsn), cfg)
	case constants.DriverSQLite:
		return gorm.Open(sqlite.Open(dsn), cfg)
	case constants.DriverSQLServer:
		return gorm.Open(sqlserver.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}
