package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/willibrandon/sqlide/internal/adapter"
	"github.com/willibrandon/sqlide/internal/dburl"
	"github.com/willibrandon/sqlide/internal/logger"
)

// checkTimeout bounds a preflight connectivity check.
const checkTimeout = 10 * time.Second

const (
	defaultMySQLHost = "localhost"
	defaultMySQLPort = 3306
)

// Check validates that the database behind an engine accepts connections,
// using the driver matching the adapter. It returns the server version.
func Check(ctx context.Context, adapterName string, u *dburl.URL) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	logger.Debug("Checking database connection", "adapter", adapterName, "url", u.Redacted())

	var (
		version string
		err     error
	)
	switch adapterName {
	case adapter.Postgres:
		version, err = checkPostgres(ctx, u)
	case adapter.MySQL:
		version, err = checkMySQL(ctx, u)
	case adapter.SQLite:
		version, err = checkSQLite(ctx, u)
	default:
		return "", fmt.Errorf("%w for %s database", adapter.ErrUnsupported, adapterName)
	}
	if err != nil {
		logger.Error("Connection check failed", "adapter", adapterName, "error", err)
		return "", err
	}

	logger.Info("Connection check succeeded", "adapter", adapterName, "version", version)
	return version, nil
}

func checkPostgres(ctx context.Context, u *dburl.URL) (string, error) {
	connConfig, err := pgx.ParseConfig(u.Set(adapter.Postgres).String())
	if err != nil {
		return "", fmt.Errorf("failed to parse connection string: %w", err)
	}
	connConfig.RuntimeParams["application_name"] = "sqlide"

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return "", fmt.Errorf("connection refused: ensure PostgreSQL is running on %s (error: %w)", u.HostPort(), err)
	}
	defer conn.Close(context.Background())

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("connection validation failed: %w", err)
	}
	return version, nil
}

// mysqlConfig maps the URL onto a go-sql-driver config.
func mysqlConfig(u *dburl.URL) *mysql.Config {
	host := u.Host
	if host == "" {
		host = defaultMySQLHost
	}
	port := u.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	cfg := mysql.NewConfig()
	cfg.User = u.Username
	cfg.Passwd = u.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = u.Database
	cfg.Timeout = checkTimeout
	return cfg
}

func checkMySQL(ctx context.Context, u *dburl.URL) (string, error) {
	connector, err := mysql.NewConnector(mysqlConfig(u))
	if err != nil {
		return "", fmt.Errorf("invalid mysql configuration: %w", err)
	}
	conn := sql.OpenDB(connector)
	defer conn.Close()

	return queryVersion(ctx, conn, "SELECT VERSION()")
}

// sqliteDSN opens an existing file read-only; an empty path is in-memory.
func sqliteDSN(path string) string {
	if path == "" {
		return ":memory:"
	}
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
}

func checkSQLite(ctx context.Context, u *dburl.URL) (string, error) {
	if u.Database != "" {
		if _, err := os.Stat(u.Database); err != nil {
			return "", fmt.Errorf("sqlite database %s: %w", u.Database, err)
		}
	}

	conn, err := sql.Open("sqlite3", sqliteDSN(u.Database))
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	return queryVersion(ctx, conn, "SELECT sqlite_version()")
}

func queryVersion(ctx context.Context, conn *sql.DB, query string) (string, error) {
	if err := conn.PingContext(ctx); err != nil {
		return "", fmt.Errorf("failed to ping database: %w", err)
	}
	var version string
	if err := conn.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return "", fmt.Errorf("connection validation failed: %w", err)
	}
	return version, nil
}
