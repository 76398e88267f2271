package handlers

import (
	"database/sql"
	"errors"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

var errSendFailed = errors.New("smtp: connection refused")

func errNoRows() error {
	return sql.ErrNoRows
}

func userRows(id, username, email, passwordHash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
		AddRow(id, username, email, passwordHash, time.Now().UTC())
}
