package reconcile

import (
	"context"
	"math"

	"gopointsync_api/internal/apierr"
	"gopointsync_api/internal/boxberry"
	"gopointsync_api/internal/normalize"
	"gopointsync_api/internal/yandexmarket"
)

const (
	outletCodePrefix  = "bxb_"
	outletTypeTag     = "bxb"
	outletType        = "DEPOT"
	outletVisibility  = "VISIBLE"
	deliveryServiceID = 106
)

var ymDays = [7]string{
	"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
}

// ActivePoint -- пункт выдачи, обогащённый расчётным тарифом и окном
// доставки, готовый к конверсии в outlet.
type ActivePoint struct {
	Point   boxberry.PickupPoint
	Rate    int
	MinDays int
	MaxDays int
}

// Rate округляет котировку курьера вверх до десятки и добавляет сборочный
// сбор: ceil(price/10)*10 + fee.
func Rate(price float64, pickingFee int) int {
	return int(math.Ceil(price/10))*10 + pickingFee
}

// enrich дополняет точку тарифом и окном доставки. Тариф сначала ищется в
// перекрытиях (город важнее области), иначе считается из котировки.
// Котировка без price или delivery_period делает точку непригодной.
func (s *Service) enrich(ctx context.Context, point boxberry.PickupPoint) (*ActivePoint, error) {
	quote, err := s.courier.GetDeliveryCost(ctx, point.Code, s.parcelWeight, s.shipDate)
	if err != nil {
		return nil, err
	}
	if quote.Price == nil || quote.DeliveryPeriod == nil {
		return nil, apierr.NewParseError("point %s: quote has no price or delivery_period", point.Code)
	}

	cost, found, err := s.costs.GetByCity(point.CityName)
	if err != nil {
		return nil, err
	}
	if !found {
		cost, found, err = s.costs.GetByRegion(point.Area)
		if err != nil {
			return nil, err
		}
	}
	if !found {
		cost = Rate(*quote.Price, s.pickingFee)
	}

	minDays := *quote.DeliveryPeriod + s.pickingTime
	return &ActivePoint{
		Point:   point,
		Rate:    cost,
		MinDays: minDays,
		MaxDays: minDays + s.deliveryWindow,
	}, nil
}

// ConvertPoint превращает пункт выдачи в outlet. Чистая функция, кроме
// чтения кеша регионов: id региона никогда не резолвится на лету, кеш
// наполняется отдельным проходом RefreshRegionCache.
func (s *Service) ConvertPoint(code string, active *ActivePoint) (*yandexmarket.Outlet, error) {
	point := &active.Point

	phone, err := normalize.Phone(point.Phone)
	if err != nil {
		return nil, err
	}

	region := normalize.RegionName(point.Area)
	mapping, err := s.regions.Get(point.CityName, region)
	if err != nil {
		return nil, err
	}
	if mapping == nil || mapping.YandexID == 0 {
		return nil, apierr.NewParseError("point %s: region %q of city %q is not resolved", code, region, point.CityName)
	}

	var schedule []yandexmarket.ScheduleItem
	for i, hours := range point.WorkHours() {
		if hours.Begin == "" || hours.End == "" {
			continue
		}
		schedule = append(schedule, yandexmarket.ScheduleItem{
			StartDay:  ymDays[i],
			EndDay:    ymDays[i],
			StartTime: hours.Begin,
			EndTime:   hours.End,
		})
	}

	return &yandexmarket.Outlet{
		Name:           point.Name,
		Type:           outletType,
		IsMain:         false,
		ShopOutletCode: code,
		Visibility:     outletVisibility,
		Address: yandexmarket.OutletAddress{
			RegionID: mapping.YandexID,
			Street:   point.Address,
		},
		Phones: []string{phone},
		WorkingSchedule: yandexmarket.WorkingSchedule{
			WorkInHoliday: false,
			ScheduleItems: schedule,
		},
		DeliveryRules: []yandexmarket.DeliveryRule{
			{
				Cost:              active.Rate,
				MinDeliveryDays:   active.MinDays,
				MaxDeliveryDays:   active.MaxDays,
				DeliveryServiceID: deliveryServiceID,
			},
		},
		Emails: s.emails,
	}, nil
}
