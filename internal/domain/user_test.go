package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUserProfile_CamelAndSnakeCase(t *testing.T) {
	camel, err := DecodeUserProfile([]byte(`{"id":"1","email":"a@x.com","firstName":"Ana","lastName":"Diaz","company":"Acme","role":"admin"}`))
	require.NoError(t, err)
	snake, err := DecodeUserProfile([]byte(`{"id":1,"email":"a@x.com","first_name":"Ana","last_name":"Diaz","company":"Acme","role":"ADMIN"}`))
	require.NoError(t, err)

	assert.Equal(t, camel, snake)
	assert.Equal(t, RoleAdmin, camel.Role)
	assert.True(t, camel.Role.Elevated())
}

func TestDecodeUserProfile_DefaultsRole(t *testing.T) {
	p, err := DecodeUserProfile([]byte(`{"id":"7","email":"u@x.com"}`))
	require.NoError(t, err)
	assert.Equal(t, RoleUser, p.Role)
	assert.False(t, p.Role.Elevated())
}

func TestDecodeUserProfile_RejectsCorrupt(t *testing.T) {
	cases := map[string]string{
		"empty":      ``,
		"garbage":    `not json`,
		"truncated":  `{"id":"1"`,
		"null":       `null`,
		"array":      `[1,2]`,
		"string":     `"user"`,
		"number":     `42`,
		"missing id": `{"email":"a@x.com"}`,
		"blank id":   `{"id":"  "}`,
		"object id":  `{"id":{"v":1}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeUserProfile([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestCredentialValid(t *testing.T) {
	assert.True(t, Credential{Token: "tok", User: UserProfile{ID: "1"}}.Valid())
	assert.False(t, Credential{Token: " ", User: UserProfile{ID: "1"}}.Valid(), "blank token")
	assert.False(t, Credential{Token: "tok"}.Valid(), "missing user")
}
