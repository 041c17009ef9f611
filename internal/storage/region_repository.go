package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RegionRepositoryPg хранит кеш регионов в Postgres.
type RegionRepositoryPg struct {
	db *sql.DB
}

func NewRegionRepositoryPg(db *sql.DB) *RegionRepositoryPg {
	return &RegionRepositoryPg{db: db}
}

func (r *RegionRepositoryPg) Get(city, region string) (*RegionMapping, error) {
	query := `SELECT city_name, region, yandex_id, updated
			  FROM yandex_regions WHERE city_name = $1 AND region = $2`

	var mapping RegionMapping
	err := r.db.QueryRow(query, city, region).Scan(
		&mapping.CityName, &mapping.Region, &mapping.YandexID, &mapping.Updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения кеша регионов: %w", err)
	}

	return &mapping, nil
}

func (r *RegionRepositoryPg) Upsert(city, region string, yandexID int64, updated time.Time) error {
	query := `
		INSERT INTO yandex_regions (city_name, region, yandex_id, updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (city_name, region) DO UPDATE
		SET
			yandex_id = EXCLUDED.yandex_id,
			updated = EXCLUDED.updated;
	`
	if _, err := r.db.Exec(query, city, region, yandexID, updated); err != nil {
		return fmt.Errorf("ошибка записи кеша регионов: %w", err)
	}
	return nil
}
