package sqldb

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
	otherViolation
)

// classify reports which kind of constraint, if any, rejected a statement.
func classify(err error) violation {
	if err == nil {
		return noViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return uniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return foreignKeyViolation
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return classifyMessage(err.Error())
		}
		return noViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return uniqueViolation
		case "23503":
			return foreignKeyViolation
		}
		if strings.HasPrefix(pgErr.Code, "23") {
			return otherViolation
		}
	}
	return noViolation
}

// classifyMessage covers builds that only report the primary SQLITE_CONSTRAINT code.
func classifyMessage(msg string) violation {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return uniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return foreignKeyViolation
	}
	return otherViolation
}
