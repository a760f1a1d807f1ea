// Package adapter maps a database URL to the SQL IDE adapter and its
// connection parameters.
package adapter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/willibrandon/sqlide/internal/dburl"
)

// ErrUnsupported is returned when no adapter handles a drivername.
var ErrUnsupported = errors.New("no IDE available")

// Adapter names as known by the SQL IDE.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// memoryDatabase is what the SQLite adapter opens for sqlite://.
const memoryDatabase = ":memory:"

// Adapter defines the contract for driver-specific connection handling.
// Each supported database (SQLite, PostgreSQL, MySQL) implements this interface.
type Adapter interface {
	// Name returns the SQL IDE adapter name.
	Name() string

	// Matches reports whether the adapter serves the URL drivername.
	Matches(drivername string) bool

	// Params builds the adapter connection parameters from a URL.
	Params(u *dburl.URL) Params
}

// Params are the connection parameters handed to an SQL IDE adapter.
type Params struct {
	Adapter  string
	ConnStr  []string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	// Env holds extra environment variables for the SQL IDE process.
	Env map[string]string
}

// Args renders the adapter parameters as SQL IDE command-line arguments.
// Empty fields are omitted; connection strings come last.
func (p Params) Args() []string {
	var args []string
	add := func(flag, value string) {
		if value != "" {
			args = append(args, flag, value)
		}
	}

	add("--host", p.Host)
	if p.Port != 0 {
		add("--port", strconv.Itoa(p.Port))
	}
	add("--database", p.Database)
	add("--user", p.User)
	add("--password", p.Password)

	return append(args, p.ConnStr...)
}

// Redacted returns the arguments with secrets masked, for display.
func (p Params) Redacted() []string {
	c := p
	if c.Password != "" {
		c.Password = "***"
	}
	c.ConnStr = make([]string, len(p.ConnStr))
	for i, s := range p.ConnStr {
		c.ConnStr[i] = dburl.Redact(s)
	}
	return c.Args()
}

// adapters is checked in order; the first match wins.
var adapters = []Adapter{
	&SQLiteAdapter{},
	&PostgresAdapter{},
	&MySQLAdapter{},
}

// ForDriver returns the adapter serving drivername.
func ForDriver(drivername string) (Adapter, error) {
	for _, a := range adapters {
		if a.Matches(drivername) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w for %s database (supported: %s)", ErrUnsupported, drivername, strings.Join(Names(), ", "))
}

// Resolve selects the adapter for u and builds its parameters.
func Resolve(u *dburl.URL) (Params, error) {
	a, err := ForDriver(u.Drivername)
	if err != nil {
		return Params{}, err
	}
	return a.Params(u), nil
}

// Names returns the supported adapter names.
func Names() []string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return names
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// SQLiteAdapter opens a database file.
type SQLiteAdapter struct{}

func (a *SQLiteAdapter) Name() string { return SQLite }

func (a *SQLiteAdapter) Matches(drivername string) bool {
	return strings.HasPrefix(drivername, "sqlite")
}

func (a *SQLiteAdapter) Params(u *dburl.URL) Params {
	database := u.Database
	if database == "" {
		database = memoryDatabase
	}
	return Params{Adapter: SQLite, ConnStr: []string{database}}
}

// PostgresAdapter passes a libpq connection URI.
type PostgresAdapter struct{}

func (a *PostgresAdapter) Name() string { return Postgres }

func (a *PostgresAdapter) Matches(drivername string) bool {
	// Also covers postgresql and postgresql+<driver>.
	return strings.HasPrefix(drivername, "postgres")
}

// Params moves the password out of the connection string into PGPASSWORD so
// it does not show up in the process list.
func (a *PostgresAdapter) Params(u *dburl.URL) Params {
	p := Params{
		Adapter: Postgres,
		ConnStr: []string{u.WithoutPassword().Set(Postgres).String()},
	}
	if u.HasPassword {
		p.Env = map[string]string{"PGPASSWORD": u.Password}
	}
	return p
}

// MySQLAdapter passes discrete connection fields.
type MySQLAdapter struct{}

func (a *MySQLAdapter) Name() string { return MySQL }

func (a *MySQLAdapter) Matches(drivername string) bool {
	return hasAnyPrefix(drivername, "mysql", "mariadb")
}

func (a *MySQLAdapter) Params(u *dburl.URL) Params {
	return Params{
		Adapter:  MySQL,
		ConnStr:  []string{},
		Host:     u.Host,
		Port:     u.Port,
		Database: u.Database,
		User:     u.Username,
		Password: u.Password,
	}
}
