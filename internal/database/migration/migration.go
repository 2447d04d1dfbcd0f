package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_document_requests",
		SQL: `CREATE TABLE IF NOT EXISTS document_requests (
  id              UUID        PRIMARY KEY,
  owner_id        TEXT        NOT NULL,
  service_code    TEXT        NOT NULL,
  status          TEXT        NOT NULL CHECK (status IN (
    'pending', 'cost_estimated', 'payment_pending', 'in_progress',
    'completed', 'rejection_pending_admin', 'rejected', 'admin_rejected')),
  cost_cents      BIGINT      CHECK (cost_cents >= 0),
  currency        TEXT        NOT NULL DEFAULT '',
  attachment_path TEXT        NOT NULL DEFAULT '',
  admin_rejection_reason TEXT,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  revision        BIGINT      NOT NULL DEFAULT 1 CHECK (revision >= 1)
);`,
	},
	{
		Name: "create_index_document_requests_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_requests_owner ON document_requests (owner_id, created_at DESC);`,
	},
	{
		Name: "create_table_payment_entries",
		SQL: `CREATE TABLE IF NOT EXISTS payment_entries (
  id                       TEXT        PRIMARY KEY,
  document_id              UUID        NOT NULL REFERENCES document_requests (id),
  amount_cents             BIGINT      NOT NULL CHECK (amount_cents > 0),
  kind                     TEXT        NOT NULL CHECK (kind IN ('partial', 'full', 'refund_adjustment')),
  external_transaction_ref TEXT,
  idempotency_key          TEXT,
  recorded_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_payment_entries_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_payment_entries_document ON payment_entries (document_id);`,
	},
	{
		Name: "create_unique_index_payment_entries_idem_key",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_entries_idem_key ON payment_entries (document_id, idempotency_key) WHERE idempotency_key IS NOT NULL;`,
	},
	{
		Name: "create_table_rejection_cases",
		SQL: `CREATE TABLE IF NOT EXISTS rejection_cases (
  id           UUID        PRIMARY KEY,
  document_id  UUID        NOT NULL REFERENCES document_requests (id),
  initiated_by TEXT        NOT NULL,
  user_reason  TEXT        NOT NULL,
  state        TEXT        NOT NULL CHECK (state IN ('pending_admin_review', 'approved', 'disagreed')),
  admin_reason TEXT,
  resolved_by  TEXT,
  resolved_at  TIMESTAMPTZ,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_index_rejection_cases_open",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_rejection_cases_open ON rejection_cases (document_id) WHERE state = 'pending_admin_review';`,
	},
	{
		Name: "create_table_audit_events",
		SQL: `CREATE TABLE IF NOT EXISTS audit_events (
  id          TEXT        PRIMARY KEY,
  document_id UUID        NOT NULL REFERENCES document_requests (id),
  from_status TEXT        NOT NULL,
  to_status   TEXT        NOT NULL,
  actor_id    TEXT        NOT NULL,
  occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_events_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_events_document ON audit_events (document_id);`,
	},
}

// EnsureMigrated checks if the 'document_requests' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.document_requests') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
