package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "p.id, p.url, p.created_at", prefixed("p.", "id, url,\n\tcreated_at"))
}

func TestIsInvalidTextRepresentation(t *testing.T) {
	wrapped := fmt.Errorf("scan: %w", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})

	assert.True(t, isInvalidTextRepresentation(wrapped))
	assert.False(t, isInvalidTextRepresentation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isInvalidTextRepresentation(errors.New("conn reset")))
}
