package server

import "errors"

var (
	// ErrDatabaseRequired is returned when a Server is constructed without a database.
	ErrDatabaseRequired = errors.New("database is required")
	// ErrLoggerRequired is returned when a nil logger is supplied.
	ErrLoggerRequired = errors.New("logger is required")
)
