package storage

import "time"

// RegionRepositoryMem -- кеш регионов в памяти: для тестов и прогонов без
// настроенной базы. Конкурентного доступа по дизайну нет, блокировки не
// нужны.
type RegionRepositoryMem struct {
	data map[[2]string]RegionMapping
}

func NewRegionRepositoryMem() *RegionRepositoryMem {
	return &RegionRepositoryMem{data: make(map[[2]string]RegionMapping)}
}

func (r *RegionRepositoryMem) Get(city, region string) (*RegionMapping, error) {
	mapping, ok := r.data[[2]string{city, region}]
	if !ok {
		return nil, nil
	}
	return &mapping, nil
}

func (r *RegionRepositoryMem) Upsert(city, region string, yandexID int64, updated time.Time) error {
	r.data[[2]string{city, region}] = RegionMapping{
		CityName: city,
		Region:   region,
		YandexID: yandexID,
		Updated:  updated,
	}
	return nil
}

// CostOverrideRepositoryMem -- фиксированные тарифы в памяти.
type CostOverrideRepositoryMem struct {
	ByCity   map[string]int
	ByRegion map[string]int
}

func NewCostOverrideRepositoryMem() *CostOverrideRepositoryMem {
	return &CostOverrideRepositoryMem{
		ByCity:   make(map[string]int),
		ByRegion: make(map[string]int),
	}
}

func (r *CostOverrideRepositoryMem) GetByCity(city string) (int, bool, error) {
	cost, ok := r.ByCity[city]
	return cost, ok, nil
}

func (r *CostOverrideRepositoryMem) GetByRegion(region string) (int, bool, error) {
	cost, ok := r.ByRegion[region]
	return cost, ok, nil
}

func (r *CostOverrideRepositoryMem) UpsertCityCost(city string, cost int) error {
	r.ByCity[city] = cost
	return nil
}

func (r *CostOverrideRepositoryMem) UpsertRegionCost(region string, cost int) error {
	r.ByRegion[region] = cost
	return nil
}
