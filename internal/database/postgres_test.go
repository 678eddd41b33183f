package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepareDSN(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		development bool
		want        string
	}{
		{"url without query", "postgres://u:p@localhost:5432/db", true, "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"url with query", "postgresql://u:p@localhost/db?application_name=x", true, "postgresql://u:p@localhost/db?application_name=x&sslmode=disable"},
		{"keyword form", "host=localhost dbname=db", true, "host=localhost dbname=db sslmode=disable"},
		{"explicit sslmode kept", "postgres://localhost/db?sslmode=require", true, "postgres://localhost/db?sslmode=require"},
		{"production untouched", "postgres://localhost/db", false, "postgres://localhost/db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrepareDSN(tt.dsn, tt.development))
		})
	}
}
