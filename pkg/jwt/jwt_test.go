package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("secreto", "u-1", RoleCajero, "imprenta-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secreto", "imprenta-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, RoleCajero, role)
}

func TestParse_Rechaza(t *testing.T) {
	tok, err := Generate("secreto", "u-1", RoleAdmin, "otro-emisor", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro-secreto", "", tok)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = Parse("secreto", "imprenta-api", tok)
	assert.Error(t, err, "emisor distinto")

	expired, err := Generate("secreto", "u-1", RoleAdmin, "imprenta-api", -1)
	require.NoError(t, err)
	_, _, err = Parse("secreto", "imprenta-api", expired)
	assert.Error(t, err, "token expirado")

	_, err = Generate("", "u-1", RoleAdmin, "x", 5)
	assert.Error(t, err)
}
