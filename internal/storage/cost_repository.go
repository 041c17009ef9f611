package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// CostOverrideRepositoryPg читает фиксированные тарифы доставки из Postgres.
type CostOverrideRepositoryPg struct {
	db *sql.DB
}

func NewCostOverrideRepositoryPg(db *sql.DB) *CostOverrideRepositoryPg {
	return &CostOverrideRepositoryPg{db: db}
}

func (r *CostOverrideRepositoryPg) GetByCity(city string) (int, bool, error) {
	return r.get(`SELECT cost FROM delivery_cost_overrides WHERE city_name = $1`, city)
}

func (r *CostOverrideRepositoryPg) GetByRegion(region string) (int, bool, error) {
	return r.get(`SELECT cost FROM delivery_cost_overrides WHERE region = $1`, region)
}

func (r *CostOverrideRepositoryPg) UpsertCityCost(city string, cost int) error {
	_, err := r.db.Exec(`
		INSERT INTO delivery_cost_overrides (city_name, cost)
		VALUES ($1, $2)
		ON CONFLICT (city_name) DO UPDATE SET cost = EXCLUDED.cost`,
		city, cost,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи тарифа для города %q: %w", city, err)
	}
	return nil
}

func (r *CostOverrideRepositoryPg) UpsertRegionCost(region string, cost int) error {
	_, err := r.db.Exec(`
		INSERT INTO delivery_cost_overrides (region, cost)
		VALUES ($1, $2)
		ON CONFLICT (region) DO UPDATE SET cost = EXCLUDED.cost`,
		region, cost,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи тарифа для области %q: %w", region, err)
	}
	return nil
}

func (r *CostOverrideRepositoryPg) get(query, key string) (int, bool, error) {
	var cost int
	err := r.db.QueryRow(query, key).Scan(&cost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("ошибка чтения тарифов: %w", err)
	}
	return cost, true, nil
}
