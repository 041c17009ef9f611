package reconcile

import (
	"context"

	"gopointsync_api/internal/normalize"
)

// RefreshRegionCache обходит все известные пункты выдачи и резолвит id
// региона маркетплейса для каждой пары (город, область). Запись обновляется
// только если её нет или она не за сегодня. Неразрешённый регион -- warning,
// в кеш ничего не пишем: такая точка позже отсеется на конверсии.
func (s *Service) RefreshRegionCache(ctx context.Context) error {
	points, err := s.courier.GetPointsDescription(ctx)
	if err != nil {
		return err
	}

	today := s.now()
	seen := make(map[[2]string]struct{})
	refreshed := 0

	for i := range points {
		point := &points[i]
		if point.CityName == "" {
			continue
		}
		region := normalize.RegionName(point.Area)

		key := [2]string{point.CityName, region}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		mapping, err := s.regions.Get(point.CityName, region)
		if err != nil {
			return err
		}
		if mapping != nil && !mapping.Stale(today) {
			continue
		}

		if err := s.pace.Wait(ctx); err != nil {
			return err
		}
		yandexID, err := s.market.GetRegionID(ctx, point.CityName, region)
		if err != nil {
			s.log.Warnf("Can not resolve region for city %q, region %q: %v", point.CityName, region, err)
			continue
		}
		if yandexID == 0 {
			s.log.Warnf("No matching region for city %q, region %q", point.CityName, region)
			continue
		}

		if err := s.regions.Upsert(point.CityName, region, yandexID, today); err != nil {
			return err
		}
		refreshed++
	}

	s.log.Infof("Region cache refreshed: %d entries updated", refreshed)
	return nil
}
