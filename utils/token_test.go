package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", "ana@example.com", "Ana Lopez", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana Lopez", claims.Name)
}

func TestParseTokenRejects(t *testing.T) {
	token, err := GenerateToken("secret", "ana@example.com", "", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken("secret", "ana@example.com", "", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, items, Paginate(items, PaginationQuery{Page: 1}))
	assert.Equal(t, []int{3, 4}, Paginate(items, PaginationQuery{Page: 2, Limit: 2}))
	assert.Equal(t, []int{5}, Paginate(items, PaginationQuery{Page: 3, Limit: 2}))
	assert.Empty(t, Paginate(items, PaginationQuery{Page: 4, Limit: 2}))
}
