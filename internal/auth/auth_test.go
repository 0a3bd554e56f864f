package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekmenu/internal/apperr"
	"weekmenu/internal/config"
)

func newService(ttl time.Duration) *Service {
	return NewService(config.AuthConfig{
		Password: "hunter2",
		Secret:   "test-secret",
		TokenTTL: ttl,
	})
}

func TestLoginAndVerify(t *testing.T) {
	svc := newService(time.Hour)

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.Verify(token))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newService(time.Hour)

	_, err := svc.Login("wachtwoord")
	assert.ErrorIs(t, err, apperr.Unauthorized(""))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newService(time.Hour)

	assert.ErrorIs(t, svc.Verify("not.a.token"), apperr.Unauthorized(""))
	assert.ErrorIs(t, svc.Verify(""), apperr.Unauthorized(""))
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := newService(-time.Minute)

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Verify(token), apperr.Unauthorized(""))
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	token, err := newService(time.Hour).Login("hunter2")
	require.NoError(t, err)

	other := NewService(config.AuthConfig{
		Password: "hunter2",
		Secret:   "different-secret",
		TokenTTL: time.Hour,
	})
	assert.ErrorIs(t, other.Verify(token), apperr.Unauthorized(""))
}
