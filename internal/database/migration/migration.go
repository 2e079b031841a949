package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_colleges",
		SQL: `CREATE TABLE IF NOT EXISTS colleges (
  college_code VARCHAR(20) PRIMARY KEY,
  college_name VARCHAR(50) NOT NULL
);`,
	},
	{
		Name: "create_table_programs",
		SQL: `CREATE TABLE IF NOT EXISTS programs (
  program_code VARCHAR(20) PRIMARY KEY,
  program_name VARCHAR(50) NOT NULL,
  college_code VARCHAR(20) NOT NULL REFERENCES colleges (college_code) ON UPDATE CASCADE
);`,
	},
	{
		Name: "create_table_students",
		SQL: `CREATE TABLE IF NOT EXISTS students (
  id_number    VARCHAR(9)  PRIMARY KEY CHECK (id_number ~ '^\d{4}-\d{4}$'),
  first_name   VARCHAR(50) NOT NULL,
  last_name    VARCHAR(50) NOT NULL,
  year_level   INT         NOT NULL CHECK (year_level BETWEEN 1 AND 5),
  gender       VARCHAR(10) NOT NULL CHECK (gender IN ('MALE', 'FEMALE', 'OTHER')),
  program_code VARCHAR(20) NOT NULL REFERENCES programs (program_code) ON UPDATE CASCADE,
  photo_path   TEXT        NULL
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  user_id       BIGSERIAL   PRIMARY KEY,
  username      TEXT        NOT NULL UNIQUE,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL DEFAULT 'admin',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_students_last_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_students_last_name ON students (last_name);`,
	},
	{
		Name: "create_index_students_program_code",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_students_program_code ON students (program_code);`,
	},
	{
		Name: "create_index_programs_college_code",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_programs_college_code ON programs (college_code);`,
	},
}

// EnsureMigrated checks if the 'students' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.students') IS NOT NULL"
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

// SeedAdmin inserts an initial administrative user when the users table is
// empty, so a fresh deployment can be logged into. No-op once any user exists.
func SeedAdmin(ctx context.Context, db *sql.DB, loc *time.Location, username, email, password string) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES ($1, $2, $3, 'admin')",
		username, email, string(hash))
	if err != nil {
		return fmt.Errorf("insert seed admin: %w", err)
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_seed_admin",
		"status":    "success",
		"username":  username,
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
