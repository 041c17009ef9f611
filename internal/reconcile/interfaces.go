package reconcile

import (
	"context"

	"gopointsync_api/internal/boxberry"
	"gopointsync_api/internal/yandexmarket"
)

// CourierAPI -- срез клиента Boxberry, нужный движку сверки.
type CourierAPI interface {
	CitiesOfRegions(ctx context.Context, regionNames []string) ([]boxberry.City, error)
	CityCodes(ctx context.Context, cityNames []string) ([]string, error)
	GetPointsCodes(ctx context.Context, cityCode string) ([]boxberry.PointShort, error)
	GetPointInfo(ctx context.Context, pointCode string) (*boxberry.PickupPoint, error)
	GetPointsDescription(ctx context.Context) ([]boxberry.PickupPoint, error)
	GetDeliveryCost(ctx context.Context, pointCode string, weight float64, shipDate string) (*boxberry.DeliveryQuote, error)
}

// MarketplaceAPI -- срез клиента Яндекс.Маркета, нужный движку сверки.
type MarketplaceAPI interface {
	GetOutletsByType(ctx context.Context, outletType string) (map[string]yandexmarket.Outlet, error)
	PostOutlet(ctx context.Context, outlet *yandexmarket.Outlet) error
	UpdateOutlet(ctx context.Context, outletID int64, outlet *yandexmarket.Outlet) error
	DeleteOutlet(ctx context.Context, outletID int64) error
	GetRegionID(ctx context.Context, cityName, areaName string) (int64, error)
}
