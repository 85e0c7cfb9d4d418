package db

import (
	"strconv"
	"strings"

	"climate-server/internal/config"
)

// Dialect describes how a driver expects bind parameters to be written.
type Dialect string

const (
	DialectSQLite   Dialect = config.DriverSQLite
	DialectPostgres Dialect = config.DriverPostgres
)

// Rebind rewrites '?' placeholders into the dialect's form. Queries embedded
// in this repository are written with '?' and never contain a literal '?'
// inside string constants.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
