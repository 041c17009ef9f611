package storage

import "time"

// RegionMapping -- закешированное соответствие (город, область) -> id
// региона маркетплейса. Updated хранит дату последнего обновления: записи
// не за сегодня считаются протухшими при обновлении кеша.
type RegionMapping struct {
	CityName string
	Region   string
	YandexID int64
	Updated  time.Time
}

// Stale reports whether the mapping was not refreshed today.
func (m *RegionMapping) Stale(today time.Time) bool {
	y1, m1, d1 := m.Updated.Date()
	y2, m2, d2 := today.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

// RegionRepository -- пассивный кеш регионов. Get возвращает nil без ошибки,
// если записи нет.
type RegionRepository interface {
	Get(city, region string) (*RegionMapping, error)
	Upsert(city, region string, yandexID int64, updated time.Time) error
}

// CostOverrideRepository -- фиксированные тарифы, перекрывающие расчётную
// ставку: сначала по городу, затем по области.
type CostOverrideRepository interface {
	GetByCity(city string) (int, bool, error)
	GetByRegion(region string) (int, bool, error)
}
