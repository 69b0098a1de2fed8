package db

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("db: empty connection URL")
	ErrParseConfig        = errors.New("db: failed to parse database configuration")
	ErrConnectionFailed   = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed  = errors.New("db: healthcheck failed")
	ErrBeginTx            = errors.New("db: failed to begin transaction")
	ErrCommitTx           = errors.New("db: failed to commit transaction")
	ErrSetDialect         = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations    = errors.New("db migrator: failed to apply migrations")
)
