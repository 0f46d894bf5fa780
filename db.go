package tablegate

import (
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormmysql "gorm.io/driver/mysql"
	gormpg "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	gormsqlserver "gorm.io/driver/sqlserver"
)

// OpenGORM opens a GORM DB for the configured service URL and access key.
// The driver is inferred from the URL scheme; the access key is injected as
// the credential of the DSN. Supported drivers: postgres, mysql, sqlite,
// sqlserver.
func OpenGORM(serviceURL, serviceKey string) (*gorm.DB, string, error) {
	driver, err := driverFromURL(serviceURL)
	if err != nil {
		return nil, "", err
	}
	dsn, err := buildDSN(driver, serviceURL, serviceKey)
	if err != nil {
		return nil, "", err
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	var db *gorm.DB
	switch driver {
	case "postgres":
		db, err = gorm.Open(gormpg.Open(dsn), cfg)
	case "mysql":
		db, err = gorm.Open(gormmysql.Open(dsn), cfg)
	case "sqlite":
		db, err = gorm.Open(gormsqlite.Open(dsn), cfg)
	case "sqlserver":
		db, err = gorm.Open(gormsqlserver.Open(dsn), cfg)
	default:
		return nil, "", fmt.Errorf("unsupported driver: %s", driver)
	}
	if err != nil {
		return nil, "", err
	}
	return db, driver, nil
}

// driverFromURL resolves the canonical driver name from the URL scheme.
func driverFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid service URL: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("service URL has no scheme: %s", rawURL)
	}
	driver := normalizeDriver(u.Scheme)
	switch driver {
	case "postgres", "mysql", "sqlite", "sqlserver":
		return driver, nil
	default:
		return "", fmt.Errorf("unsupported driver: %s", u.Scheme)
	}
}

// buildDSN turns the service URL plus access key into a driver DSN.
// The key replaces the password component; an existing username is kept.
// The sqlite driver takes a file path and has no credential to inject.
func buildDSN(driver, rawURL, serviceKey string) (string, error) {
	if driver == "sqlite" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", err
		}
		return strings.TrimPrefix(rawURL, u.Scheme+"://"), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	user := ""
	if u.User != nil {
		user = u.User.Username()
	}

	if driver == "mysql" {
		// gorm's mysql driver wants the go-sql-driver DSN form, not a URL
		dsn := fmt.Sprintf("%s:%s@tcp(%s)%s", user, serviceKey, u.Host, u.Path)
		if u.RawQuery != "" {
			dsn += "?" + u.RawQuery
		}
		return dsn, nil
	}

	u.User = url.UserPassword(user, serviceKey)
	return u.String(), nil
}
