package db

import (
	"context"
	"errors"
	"net"
	"os"
)

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	// ErrTimeout marks a backend-reported deadline, e.g. a cancelled Postgres statement.
	ErrTimeout = errors.New("db: timeout")
)

// Op names the backend command in errors.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"

	OpCreateTable = "CREATE TABLE"
	OpDropTable   = "DROP TABLE"
	OpTableInfo   = "TABLE INFO"
	OpSelect      = "SELECT"
	OpUpsert      = "UPSERT"
)

// Error carries the backend command that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a deadline hit on the client or the server.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
