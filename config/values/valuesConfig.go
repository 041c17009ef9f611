package values

type Config interface {
}

// SyncValues -- бизнес-надбавки поверх сырой котировки курьера.
type SyncValues struct {
	Attempts           int     `yaml:"attempts"`
	PickingFee         int     `yaml:"picking-fee"`
	PickingTimeDays    int     `yaml:"picking-time-days"`
	DeliveryWindowDays int     `yaml:"delivery-window-days"`
	ShipDate           string  `yaml:"ship-date"`
	ParcelWeight       float64 `yaml:"parcel-weight"`
}
