package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		phone TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		email TEXT,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createRoleAssignmentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE role_assignments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_primary BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, role)
	);`)
}

func createVendorProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE vendor_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		store_name_en TEXT NOT NULL,
		store_name_ar TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createCustomerProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE customer_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		language TEXT NOT NULL DEFAULT 'ar',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createOneTimeCodeTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE one_time_codes (
		id TEXT PRIMARY KEY,
		phone TEXT NOT NULL,
		purpose TEXT NOT NULL,
		code TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		consumed_at DATETIME,
		created_at DATETIME
	);`)
}

func createRefreshTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		family_id TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		consumed_at DATETIME,
		revoked_at DATETIME,
		created_at DATETIME
	);`)
}
