package main

import (
	"testing"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/stretchr/testify/assert"
)

func TestCorsConfig(t *testing.T) {
	cfg := corsConfig([]string{"http://localhost:3000", "https://example.com"})
	assert.Equal(t, "http://localhost:3000, https://example.com", cfg.AllowOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.NotPanics(t, func() { cors.New(cfg) })

	for _, origins := range [][]string{{"*"}, {"http://localhost:3000", "*"}} {
		cfg := corsConfig(origins)
		assert.Equal(t, "*", cfg.AllowOrigins)
		assert.False(t, cfg.AllowCredentials)
		assert.NotPanics(t, func() { cors.New(cfg) })
	}
}
