package server_test

import (
	"testing"

	"inventory-reconciler/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"configured", 2, 2 * 1024 * 1024},
		{"zero falls back", 0, 16 * 1024 * 1024},
		{"negative falls back", -1, 16 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, server.Config{Port: "8080"}.Validate())
	assert.Error(t, server.Config{}.Validate())
}
