package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrDefault(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseOrDefault(`["a","b"]`, []string{}))
	assert.Equal(t, []string{}, ParseOrDefault("", []string{}))
	assert.Equal(t, []string{}, ParseOrDefault("{broken", []string{}))

	type pair struct {
		X int `json:"x"`
	}
	assert.Equal(t, pair{X: 3}, ParseOrDefault(`{"x":3}`, pair{}))
	assert.Equal(t, pair{X: 9}, ParseOrDefault("nonsense", pair{X: 9}))
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, `["a"]`, MustMarshal([]string{"a"}, "[]"))
	assert.Equal(t, "[]", MustMarshal(make(chan int), "[]"))
}
