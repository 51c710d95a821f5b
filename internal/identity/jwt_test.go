package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "partnerdesk/pkg/errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer")

func Test_GenerateAccessToken_Partner(t *testing.T) {
	partnerID := uuid.New()
	token, err := jwtService.GenerateAccessToken(Caller{PartnerID: partnerID, Email: "ops@partner.example"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	caller, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.False(t, caller.Admin)
	assert.True(t, caller.IsPartner())
	assert.Equal(t, partnerID, caller.PartnerID)
	assert.Equal(t, "ops@partner.example", caller.Email)
}

func Test_GenerateAccessToken_Admin(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(Caller{Admin: true, Email: "sourcing@hq.example"}, time.Hour)
	require.NoError(t, err)

	caller, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, caller.Admin)
	assert.False(t, caller.IsPartner())
	assert.Equal(t, uuid.Nil, caller.PartnerID)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(Caller{Admin: true}, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_NoRoleNoPartner(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(Caller{Email: "nobody@example.com"}, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, pkgerrors.New(pkgerrors.CodeUnauthorized, ""))
}
