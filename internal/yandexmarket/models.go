package yandexmarket

// Outlet -- точка продаж в терминах Яндекс.Маркета. Числовой id назначается
// маркетплейсом при создании; join-ключом между сервисами служит
// shopOutletCode.
type Outlet struct {
	ID              int64           `json:"id,omitempty"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	IsMain          bool            `json:"isMain"`
	ShopOutletCode  string          `json:"shopOutletCode"`
	Visibility      string          `json:"visibility"`
	Address         OutletAddress   `json:"address"`
	Phones          []string        `json:"phones"`
	WorkingSchedule WorkingSchedule `json:"workingSchedule"`
	DeliveryRules   []DeliveryRule  `json:"deliveryRules"`
	Emails          []string        `json:"emails"`
}

type OutletAddress struct {
	RegionID int64  `json:"regionId"`
	Street   string `json:"street"`
}

type ScheduleItem struct {
	StartDay  string `json:"startDay"`
	EndDay    string `json:"endDay"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type WorkingSchedule struct {
	WorkInHoliday bool           `json:"workInHoliday"`
	ScheduleItems []ScheduleItem `json:"scheduleItems"`
}

type DeliveryRule struct {
	Cost              int `json:"cost"`
	MinDeliveryDays   int `json:"minDeliveryDays"`
	MaxDeliveryDays   int `json:"maxDeliveryDays"`
	DeliveryServiceID int `json:"deliveryServiceId"`
}

// Region -- узел географического дерева маркетплейса.
type Region struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Parent *Region `json:"parent,omitempty"`
}

type Paging struct {
	NextPageToken string `json:"nextPageToken"`
}
