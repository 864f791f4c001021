package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/oficina-api/pkg/jwt"
)

const secret = "segredo-de-teste"

func TestGenerateAndParse(t *testing.T) {
	id := pkgjwt.Identity{UserID: "u-1", Role: "tecnico", Email: "t@oficina.local"}
	tok, err := pkgjwt.Generate(secret, id, "oficina", time.Hour)
	require.NoError(t, err)

	got, err := pkgjwt.Parse(secret, "oficina", tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Identity{UserID: "u-1"}, "", -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, "", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_SecretOuEmissorErrado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Identity{UserID: "u-1"}, "oficina", time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("outro", "", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)

	_, err = pkgjwt.Parse(secret, "outro-emissor", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_SemSubject(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Identity{Role: "admin"}, "", time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, "", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}
