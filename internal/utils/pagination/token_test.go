package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(entryDate, "0b6c2d0e-1f7a-4b4b-9a51-2d1c0f2e9a10")
	assert.NotEmpty(t, token, "Token should not be empty")

	date, id, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, entryDate, date)
	assert.Equal(t, "0b6c2d0e-1f7a-4b4b-9a51-2d1c0f2e9a10", id)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2025-01-15T00:00:00Z")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("notadate|je-1")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("1000", "acc-1")
	fields, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"1000", "acc-1"}, fields)

	_, err = DecodeMultiFieldToken("%%%")
	assert.Error(t, err)
}
