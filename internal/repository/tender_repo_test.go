package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonNullArray(t *testing.T) {
	assert.Equal(t, []string{}, nonNullArray(nil))
	assert.Equal(t, []string{"a", "b"}, nonNullArray([]string{"a", "b"}))
	assert.Equal(t, []string{}, nonNullArray([]string{}))
}

func TestOptionalArraysEncodeAsEmptyArrayNotNull(t *testing.T) {
	m := pgtype.NewMap()

	// nil-срез кодируется как SQL NULL и нарушил бы ограничение NOT NULL.
	buf, err := m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, []string(nil), nil)
	require.NoError(t, err)
	assert.Nil(t, buf)

	// После приведения уходит пустой массив, а не NULL.
	buf, err = m.Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, nonNullArray(nil), nil)
	require.NoError(t, err)
	assert.NotNil(t, buf)
}
