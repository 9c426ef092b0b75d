package database

import (
	"testing"

	"iglesia360/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: config.DriverSQLite,
		SQLitePath:    "file:" + t.Name() + "?mode=memory&cache=shared",
	}

	db, err := NewConnection(cfg)
	require.NoError(t, err)

	for _, table := range []string{"users", "ministries", "solicitudes", "solicitud_items", "solicitud_attachments", "solicitud_approvals", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewConnectionRejectsMemoryDriver(t *testing.T) {
	_, err := NewConnection(&config.Config{StorageDriver: config.DriverMemory})
	assert.Error(t, err)
}
