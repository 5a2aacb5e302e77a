package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"gitlab.com/dirk.krummacker/abook/internal/config"
)

// sqlitePragmas are applied to every sqlite connection. Concurrent invocations wait for the file
// lock instead of failing right away.
const sqlitePragmas = "_pragma=busy_timeout(5000)"

// dialect holds what differs between the supported database servers.
type dialect struct {
	driver    string // database/sql driver name
	bindName  string // driver name that tells sqlx which bindvar style to use
	schema    string // DDL script below schema/
	returning bool   // new ids come from INSERT ... RETURNING instead of LastInsertId
}

// dialects maps the configured driver name to its dialect.
var dialects = map[string]dialect{
	config.DriverSQLite:   {driver: "sqlite", bindName: "sqlite3", schema: "sqlite.sql"},
	config.DriverMySQL:    {driver: "mysql", bindName: "mysql", schema: "mysql.sql"},
	config.DriverPostgres: {driver: "pgx", bindName: "pgx", schema: "postgres.sql", returning: true},
}

// lookupDialect returns the dialect for a configured driver name.
func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// dataSourceName builds the connection string handed to sql.Open.
func dataSourceName(cfg config.Database) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("creating database directory: %w", err)
			}
		}
		separator := "?"
		if strings.Contains(cfg.Path, "?") {
			separator = "&"
		}
		return cfg.Path + separator + sqlitePragmas, nil
	case config.DriverMySQL:
		return mysqlDSN(cfg.DSN)
	case config.DriverPostgres:
		return cfg.DSN, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// mysqlDSN normalizes a MySQL connection string. Without a configured DSN the connection
// parameters are taken from the DBUSER, DBPWD, DBHOST and DBNAME environment variables.
//
// Usage example:
// > export DBHOST=localhost:3306 && export DBUSER=dirk && export DBPWD=bullo92
// > ABOOK_DRIVER=mysql abook -s name:Jane
func mysqlDSN(dsn string) (string, error) {
	var mc *mysql.Config
	if dsn != "" {
		var err error
		mc, err = mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parsing mysql dsn: %w", err)
		}
	} else {
		mc = mysql.NewConfig()
		mc.User = os.Getenv("DBUSER")
		mc.Passwd = os.Getenv("DBPWD")
		mc.Net = "tcp"
		mc.Addr = os.Getenv("DBHOST")
		mc.DBName = os.Getenv("DBNAME")
		if mc.DBName == "" {
			mc.DBName = "abook"
		}
	}
	// An UPDATE that leaves every value unchanged must still report the row as affected,
	// otherwise modifying a contact with identical values looks like a missing id.
	mc.ClientFoundRows = true
	return mc.FormatDSN(), nil
}

// Open connects to the configured database, creates the schema if necessary and returns a ready
// to use store. The caller is responsible for calling Close() on the returned store.
func Open(cfg config.Database) (*Store, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite doesn't support concurrent writes
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	s, err := New(sqlDB, cfg.Driver)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}
