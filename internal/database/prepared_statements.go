package database

import (
	"fmt"

	"github.com/gocql/gocql"
)

const createAuditTable = `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid PRIMARY KEY,
		actor text,
		action text,
		resource text,
		resource_id text,
		details text,
		success boolean,
		error_msg text,
		timestamp timestamp
	)`

// InsertAuditLog est préparé par gocql au premier Exec puis mis en cache.
const InsertAuditLog = `
	INSERT INTO audit_logs (
		id, actor, action, resource, resource_id,
		details, success, error_msg, timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func EnsureAuditTable(session *gocql.Session) error {
	if err := session.Query(createAuditTable).Exec(); err != nil {
		return fmt.Errorf("création table audit_logs: %w", err)
	}
	return nil
}
