// SPDX-License-Identifier: MPL-2.0

package history

import (
	"database/sql"
	"fmt"
)

// migrations run in order on every Open. Each statement is idempotent, so
// no schema-version bookkeeping is needed.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS executions (
		id TEXT PRIMARY KEY,
		app TEXT NOT NULL,
		action TEXT NOT NULL,
		command TEXT NOT NULL,
		full_cmd TEXT,
		log_path TEXT,
		success BOOLEAN NOT NULL,
		error TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_executions_started_at ON executions(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_executions_app ON executions(app)`,
	`CREATE INDEX IF NOT EXISTS idx_executions_success ON executions(success)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("history: apply migration: %w", err)
		}
	}
	return nil
}
