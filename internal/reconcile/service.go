package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gopointsync_api/config"
	"gopointsync_api/internal/apierr"
	"gopointsync_api/internal/boxberry"
	"gopointsync_api/internal/storage"
	"gopointsync_api/metrics"
)

// Service -- движок сверки. Однопоточный по дизайну: все удалённые вызовы
// блокируют прогон, единственная кооперация -- паузы вежливости между
// вызовами, меняющими состояние маркетплейса.
type Service struct {
	courier CourierAPI
	market  MarketplaceAPI
	regions storage.RegionRepository
	costs   storage.CostOverrideRepository
	log     *zap.SugaredLogger

	cityNames   []string
	regionNames []string
	emails      []string

	parcelWeight   float64
	shipDate       string
	pickingFee     int
	pickingTime    int
	deliveryWindow int

	pace *rate.Limiter
	now  func() time.Time
}

// RunStats -- итог одного прогона.
type RunStats struct {
	Removed int
	Updated int
	Added   int
	Skipped int
}

func NewService(
	courier CourierAPI,
	market MarketplaceAPI,
	regions storage.RegionRepository,
	costs storage.CostOverrideRepository,
	cfg *config.AppConfig,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		courier:        courier,
		market:         market,
		regions:        regions,
		costs:          costs,
		log:            log,
		cityNames:      cfg.Boxberry.Cities(),
		regionNames:    cfg.Boxberry.Regions(),
		emails:         cfg.YandexMarket.EmailList(),
		parcelWeight:   cfg.Sync.ParcelWeight,
		shipDate:       cfg.Sync.ShipDate,
		pickingFee:     cfg.Sync.PickingFee,
		pickingTime:    cfg.Sync.PickingTimeDays,
		deliveryWindow: cfg.Sync.DeliveryWindowDays,
		pace:           rate.NewLimiter(rate.Every(time.Second), 1),
		now:            time.Now,
	}
}

// SetPace overrides the courtesy limiter.
func (s *Service) SetPace(l *rate.Limiter) {
	s.pace = l
}

// SetNow overrides the clock.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// collectCityCodes собирает коды городов из настроенных областей и городов.
// Сбой разбора логируется, прогон продолжается с тем, что добыли.
// Недоступность сервиса прерывает прогон: неполный снимок кодов нельзя
// отдавать в фазу удаления.
func (s *Service) collectCityCodes(ctx context.Context) ([]string, error) {
	var codes []string

	if len(s.regionNames) > 0 {
		regionCities, err := s.courier.CitiesOfRegions(ctx, s.regionNames)
		switch {
		case err == nil:
			codes = append(codes, boxberry.CityCodesOf(regionCities)...)
		case apierr.IsParse(err):
			s.log.Errorf("Can not get cities of regions: %v. %v", s.regionNames, err)
		default:
			return nil, err
		}
	}

	if len(s.cityNames) > 0 {
		cityCodes, err := s.courier.CityCodes(ctx, s.cityNames)
		switch {
		case err == nil:
			codes = append(codes, cityCodes...)
		case apierr.IsParse(err):
			s.log.Errorf("Can not get city codes of city(es): %v. %v", s.cityNames, err)
		default:
			return nil, err
		}
	}

	return codes, nil
}

// collectPointCodes возвращает множество кодов точек во всех городах.
// Те же правила, что и выше: сбой разбора пропускает город, недоступность
// сервиса прерывает прогон.
func (s *Service) collectPointCodes(ctx context.Context, cityCodes []string) (map[string]struct{}, error) {
	points := make(map[string]struct{})
	for _, cityCode := range cityCodes {
		shorts, err := s.courier.GetPointsCodes(ctx, cityCode)
		if err != nil {
			if apierr.IsParse(err) {
				s.log.Warnf("Points for city code %s did not found. %v", cityCode, err)
				continue
			}
			return nil, err
		}
		for _, short := range shorts {
			if short.Code != "" {
				points[short.Code] = struct{}{}
			}
		}
	}
	return points, nil
}

// collectActivePoints тянет детали и обогащение для каждой точки, кроме
// исключённых (уже опубликованных в не-refresh режиме). Сбой одной точки --
// пропуск, не фатален.
func (s *Service) collectActivePoints(
	ctx context.Context,
	pointCodes map[string]struct{},
	exclude map[string]struct{},
) (map[string]*ActivePoint, int) {
	cleaned := make([]string, 0, len(pointCodes))
	for code := range pointCodes {
		if _, ok := exclude[outletCodePrefix+code]; ok {
			continue
		}
		cleaned = append(cleaned, code)
	}
	if skipped := len(pointCodes) - len(cleaned); skipped > 0 {
		s.log.Infof("%d points yet exist in Yandex.Market", skipped)
	}

	s.log.Infof("Begin to get detailed info about %d points", len(cleaned))

	active := make(map[string]*ActivePoint, len(cleaned))
	skipped := 0
	for _, code := range cleaned {
		if err := s.pace.Wait(ctx); err != nil {
			return active, skipped
		}
		point, err := s.courier.GetPointInfo(ctx, code)
		if err != nil {
			s.log.Warnf("Detailed info about point %s did not found. %v", code, err)
			skipped++
			continue
		}
		enriched, err := s.enrich(ctx, *point)
		if err != nil {
			s.log.Warnf("Point %s is not suitable for publishing: %v", code, err)
			metrics.RecordOutletOp("enrich", "skipped")
			skipped++
			continue
		}
		active[outletCodePrefix+code] = enriched
	}
	return active, skipped
}

// Run выполняет один проход сверки. Порядок фаз фиксирован: удаление,
// затем обновление (только в режиме полного обновления), затем создание --
// точка не должна удаляться и пересоздаваться под одним кодом за прогон.
func (s *Service) Run(ctx context.Context, updateExisting bool) (RunStats, error) {
	var stats RunStats

	existing, err := s.market.GetOutletsByType(ctx, outletTypeTag)
	if err != nil {
		return stats, err
	}
	s.log.Infof("Got %d existing Boxberry points from YM", len(existing))

	exclude := make(map[string]struct{})
	if !updateExisting {
		for code := range existing {
			exclude[code] = struct{}{}
		}
	}

	cityCodes, err := s.collectCityCodes(ctx)
	if err != nil {
		return stats, err
	}
	pointCodes, err := s.collectPointCodes(ctx, cityCodes)
	if err != nil {
		return stats, err
	}
	active, skipped := s.collectActivePoints(ctx, pointCodes, exclude)
	stats.Skipped = skipped
	s.log.Infof("Got %d points from Boxberry", len(active))

	// Удаляем из маркетплейса точки, пропавшие из Boxberry.
	prefixed := make(map[string]struct{}, len(pointCodes))
	for code := range pointCodes {
		prefixed[outletCodePrefix+code] = struct{}{}
	}
	for code, outlet := range existing {
		if _, ok := prefixed[code]; ok {
			continue
		}
		if err := s.pace.Wait(ctx); err != nil {
			return stats, err
		}
		if err := s.market.DeleteOutlet(ctx, outlet.ID); err != nil {
			s.log.Errorf("Can not delete Boxberry point from YM: %v", err)
			metrics.RecordOutletOp("delete", "failed")
			continue
		}
		stats.Removed++
		metrics.RecordOutletOp("delete", "ok")
		s.log.Infof("Point id: %s, name: %s was deleted from YM", code, outlet.Name)
	}
	s.log.Infof("Removed %d outlets from YM", stats.Removed)

	if updateExisting {
		for code, point := range active {
			outlet, ok := existing[code]
			if !ok {
				continue
			}
			converted, err := s.ConvertPoint(code, point)
			if err != nil {
				s.log.Errorf("Can not convert point data: %v", err)
				metrics.RecordOutletOp("update", "skipped")
				continue
			}
			if err := s.pace.Wait(ctx); err != nil {
				return stats, err
			}
			if err := s.market.UpdateOutlet(ctx, outlet.ID, converted); err != nil {
				s.log.Errorf("Can not update Boxberry point on YM: %v", err)
				metrics.RecordOutletOp("update", "failed")
				continue
			}
			stats.Updated++
			metrics.RecordOutletOp("update", "ok")
			s.log.Infof("Point id: %s, address: %s was updated on YM", code, point.Point.Address)
		}
		s.log.Infof("Updated %d outlets on YM", stats.Updated)
	}

	for code, point := range active {
		if _, ok := existing[code]; ok {
			continue
		}
		converted, err := s.ConvertPoint(code, point)
		if err != nil {
			s.log.Errorf("Can not convert point data: %v", err)
			metrics.RecordOutletOp("create", "skipped")
			continue
		}
		if err := s.pace.Wait(ctx); err != nil {
			return stats, err
		}
		if err := s.market.PostOutlet(ctx, converted); err != nil {
			s.log.Errorf("Can not add Boxberry point to YM: %v", err)
			metrics.RecordOutletOp("create", "failed")
			continue
		}
		stats.Added++
		metrics.RecordOutletOp("create", "ok")
		s.log.Infof("New point id: %s, address: %s was added to YM", code, point.Point.Address)
	}
	s.log.Infof("Added %d outlets to YM", stats.Added)

	return stats, nil
}

// DeleteAllBoxberryOutlets снимает с публикации все точки Boxberry.
func (s *Service) DeleteAllBoxberryOutlets(ctx context.Context) error {
	existing, err := s.market.GetOutletsByType(ctx, outletTypeTag)
	if err != nil {
		return err
	}
	for code, outlet := range existing {
		if err := s.pace.Wait(ctx); err != nil {
			return err
		}
		if err := s.market.DeleteOutlet(ctx, outlet.ID); err != nil {
			s.log.Errorf("Can not delete Boxberry point from YM: %v", err)
			continue
		}
		s.log.Infof("Point id: %s, name: %s was deleted from YM", code, outlet.Name)
	}
	return nil
}
