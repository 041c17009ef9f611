package migrations

import (
	"database/sql"
	"fmt"
	"log"

	"gopointsync_api/pkg/dbconnect/migration"
)

type MigrationsSchema struct{}

func (m *MigrationsSchema) UpMigration(db *sql.DB) error {
	_, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS migrations;`)
	if err != nil {
		return fmt.Errorf("failed to create migrations schema: %w", err)
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS migrations.migrations (
            id SERIAL PRIMARY KEY,
            time TIMESTAMP NOT NULL,
            name VARCHAR(255) UNIQUE NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

type YandexRegions struct{}

func (m *YandexRegions) UpMigration(db *sql.DB) error {
	var migrationExists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = 'yandex_regions')").Scan(&migrationExists)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		log.Println("Migration 'yandex_regions' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS yandex_regions (
		    id SERIAL PRIMARY KEY,
		    city_name VARCHAR(255),
		    region VARCHAR(255),
		    yandex_id BIGINT,
		    updated DATE,
		    UNIQUE (city_name, region)
		);
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create yandex_regions table: %w", err)
	}
	_, err = db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ('yandex_regions', current_timestamp)")
	if err != nil {
		return fmt.Errorf("failed to mark yandex_regions migration as complete: %w", err)
	}

	log.Println("Migration 'yandex_regions' completed successfully.")
	return nil
}

type DeliveryCostOverrides struct{}

func (m *DeliveryCostOverrides) UpMigration(db *sql.DB) error {
	var migrationExists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = 'delivery_cost_overrides')").Scan(&migrationExists)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		log.Println("Migration 'delivery_cost_overrides' already completed. Skipping.")
		return nil
	}
	query :=
		`
		CREATE TABLE IF NOT EXISTS delivery_cost_overrides (
		    id SERIAL PRIMARY KEY,
		    city_name VARCHAR(255) UNIQUE,
		    region VARCHAR(255) UNIQUE,
		    cost INT NOT NULL
		);
		`
	_, err = db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create delivery_cost_overrides table: %w", err)
	}
	_, err = db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ('delivery_cost_overrides', current_timestamp)")
	if err != nil {
		return fmt.Errorf("failed to mark delivery_cost_overrides migration as complete: %w", err)
	}

	log.Println("Migration 'delivery_cost_overrides' completed successfully.")
	return nil
}

// RunAll прогоняет миграции в фиксированном порядке.
func RunAll(db *sql.DB) error {
	steps := []migration.MigrationInterface{
		&MigrationsSchema{},
		&YandexRegions{},
		&DeliveryCostOverrides{},
	}
	for _, step := range steps {
		if err := step.UpMigration(db); err != nil {
			return err
		}
	}
	return nil
}
