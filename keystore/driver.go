package keystore

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/lib/pq"              // postgres driver
	_ "modernc.org/sqlite"             // pure Go sqlite driver
)

// Supported drivers.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// DetectDriver infers the database driver from a DSN.
func DetectDriver(dsn string) (string, bool) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", false
	}
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Postgres, true
	case strings.HasPrefix(lower, "mysql://"):
		return MySQL, true
	case strings.HasPrefix(lower, "file:"), lower == ":memory:", strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".db"):
		return SQLite, true
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return MySQL, true
	}
	return "", false
}

// EnsurePragmas appends SQLite pragmas to the DSN when missing.
// It is a no-op for in-memory databases.
func EnsurePragmas(dsn string, busyTimeoutMS int) string {
	lower := strings.ToLower(dsn)
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:") {
		return dsn
	}
	if !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = addPragma(dsn, "journal_mode(WAL)")
	}
	if busyTimeoutMS > 0 && !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = addPragma(dsn, fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	}
	return dsn
}

func addPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}

// driverDSN adapts a DSN to the form the driver accepts.
func driverDSN(driver, dsn string) string {
	switch driver {
	case SQLite:
		return EnsurePragmas(dsn, 5000)
	case MySQL:
		return strings.TrimPrefix(dsn, "mysql://")
	}
	return dsn
}

// rebind rewrites "?" placeholders to "$n" for postgres.
func rebind(driver, query string) string {
	if driver != Postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
