package db

import "fmt"

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*DB) error{
		migrateV1,
		migrateV2,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE blender_repo_paths (
			id TEXT PRIMARY KEY NOT NULL,
			repo_directory_path TEXT NOT NULL UNIQUE,
			is_default INTEGER NOT NULL DEFAULT 0,
			created TEXT NOT NULL,
			modified TEXT NOT NULL,
			accessed TEXT NOT NULL
		)`,
		`CREATE TABLE installed_blender_versions (
			id TEXT PRIMARY KEY NOT NULL,
			version TEXT NOT NULL,
			variant_type TEXT NOT NULL,
			download_url TEXT,
			is_default INTEGER NOT NULL DEFAULT 0,
			installation_directory_path TEXT NOT NULL,
			executable_file_path TEXT NOT NULL UNIQUE,
			created TEXT NOT NULL,
			modified TEXT NOT NULL,
			accessed TEXT NOT NULL
		)`,
		`CREATE TABLE project_files (
			id TEXT PRIMARY KEY NOT NULL,
			file_path TEXT NOT NULL UNIQUE,
			file_name TEXT NOT NULL,
			associated_series_json TEXT NOT NULL DEFAULT '[]',
			last_used_blender_version_id TEXT,
			created TEXT NOT NULL,
			modified TEXT NOT NULL,
			accessed TEXT NOT NULL
		)`,
		`CREATE TABLE launch_arguments (
			id TEXT PRIMARY KEY NOT NULL,
			is_default INTEGER NOT NULL DEFAULT 0,
			argument_string TEXT NOT NULL UNIQUE,
			last_used_project_file_id TEXT,
			last_used_python_script_id TEXT,
			created TEXT NOT NULL,
			modified TEXT NOT NULL,
			accessed TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	return nil
}

func migrateV2(d *DB) error {
	// Scripts were added after the first release
	_, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS python_scripts (
			id TEXT PRIMARY KEY NOT NULL,
			script_file_path TEXT NOT NULL UNIQUE,
			created TEXT NOT NULL,
			modified TEXT NOT NULL,
			accessed TEXT NOT NULL
		)
	`)
	return err
}
