package migration

import "embed"

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"
