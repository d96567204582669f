package repository

import (
	"errors"
	"fmt"

	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error code for unique_violation
const pgUniqueViolation = "23505"

// translateError maps driver errors onto the domain repository errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", domainRepo.ErrDuplicateKey, pgErr.ConstraintName)
	}
	return err
}
