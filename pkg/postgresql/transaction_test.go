package postgresql

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, expected: true},
		{name: "wrapped deadlock", err: fmt.Errorf("apply: %w", &pgconn.PgError{Code: "40P01"}), expected: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, expected: false},
		{name: "plain error", err: fmt.Errorf("boom"), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsSerializationFailure(tc.err))
		})
	}
}
