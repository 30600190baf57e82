package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)

const (
	oraUniqueViolation    = "ORA-00001"
	usernameConstraintKey = "UQ_USERS_USERNAME"
)

// isUniqueViolation recognises ORA-00001 from both go-ora and godror.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), oraUniqueViolation)
}

func violatesConstraint(err error, name string) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), name)
}
