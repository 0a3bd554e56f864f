package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("x").HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, InvalidInput("x").HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, NoRecipesAvailable("x").HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, Upstream(nil, "x").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal(nil, "x").HTTPStatus())
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("recipe abc not found"))

	assert.True(t, errors.Is(err, NotFound("")))
	assert.False(t, errors.Is(err, InvalidInput("")))
	assert.False(t, errors.Is(err, errors.New("recipe abc not found")))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream(cause, "weather provider unreachable")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "weather provider unreachable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("x")))
	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("w: %w", NotFound("x"))))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
