package user

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistsQuery(t *testing.T) {
	sql, args, err := existsQuery("u1").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM public.users WHERE id = $1", sql)
	assert.Equal(t, []any{"u1"}, args)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
