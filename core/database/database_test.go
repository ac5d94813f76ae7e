package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "inventory",
			TimeoutSeconds: 2,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite In Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		assert.NoError(t, err)
		assert.NotNil(t, db)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{DriverMySQL, "mysql"},
		{"", "mysql"},
		{DriverPostgres, "postgres"},
		{DriverSQLite, "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := dialectorFor(Config{Driver: tt.driver, Host: "db", Port: 5432, User: "inv", Name: "inventory"}, 5)
			assert.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}
}

func TestQuoteDSN(t *testing.T) {
	assert.Equal(t, "secret", quoteDSN("secret"))
	assert.Equal(t, "''", quoteDSN(""))
	assert.Equal(t, `'pa ss'`, quoteDSN("pa ss"))
	assert.Equal(t, `'it\'s'`, quoteDSN("it's"))
	assert.Equal(t, `'a\\b'`, quoteDSN(`a\b`))
}
