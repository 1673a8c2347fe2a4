package services

import (
	"encoding/json"
	"testing"

	"github.com/startinfo/academy_api/services/testutils"
	"github.com/startinfo/academy_api/shared"
	"gorm.io/gorm"
)

// setupDatabase returns a migrated in-memory database wrapped the way the
// services expect it.
func setupDatabase(t *testing.T) (*gorm.DB, DatabaseService) {
	t.Helper()

	db := testutils.SetupTestDB(t)
	return db, &SqliteService{db: db}
}

// rawJSON encodes v the way a client would send it in a request body.
func rawJSON(v interface{}) json.RawMessage {
	b, _ := shared.JSONMarshal(v)
	return b
}
