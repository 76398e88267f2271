package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// CreateDatabaseIfNotExists bootstraps the target database by connecting to
// the default "postgres" database first.
func CreateDatabaseIfNotExists(connString string) error {
	dbName, err := databaseName(connString)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	rootConnStr, err := withDatabaseName(connString, "postgres")
	if err != nil {
		return fmt.Errorf("failed to build root connection string: %w", err)
	}

	db, err := sql.Open("postgres", rootConnStr)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT 1 FROM pg_database WHERE datname = $1", dbName).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		// CREATE DATABASE cannot be parameterized.
		if _, err := db.Exec("CREATE DATABASE " + dbName); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		log.Info().Str("database", dbName).Msg("database created")
	}

	return nil
}

func databaseName(connString string) (string, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return "", err
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", fmt.Errorf("no database name in connection string")
	}
	return name, nil
}

func withDatabaseName(connString, newName string) (string, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return "", err
	}
	u.Path = "/" + newName
	return u.String(), nil
}
