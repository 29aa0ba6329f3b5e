package utils

import (
	"testing"

	"sarap_local_back_end/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := models.User{
		ID:    uuid.New(),
		Email: "nena@saraplocal.ph",
		Role:  models.RoleVendor,
	}

	token, err := GenerateJWT(user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, models.RoleVendor, claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("pas.un.jwt")
	assert.Error(t, err)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	n1 := GenerateOrderNumber()
	n2 := GenerateOrderNumber()

	assert.Regexp(t, `^SL-\d+-\d{4}$`, n1)
	assert.Regexp(t, `^SL-\d+-\d{4}$`, n2)
}
