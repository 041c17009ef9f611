package boxberry

// City -- город из справочника ListCities.
type City struct {
	Code   string `json:"Code"`
	Name   string `json:"Name"`
	Region string `json:"Region"`
}

// PointShort -- краткая запись из ListPointsShort.
type PointShort struct {
	Code string `json:"Code"`
}

// PickupPoint -- полное описание пункта выдачи.
type PickupPoint struct {
	Code    string `json:"Code"`
	Name    string `json:"Name"`
	Address string `json:"Address"`
	Phone   string `json:"Phone"`

	WorkMoBegin string `json:"WorkMoBegin"`
	WorkMoEnd   string `json:"WorkMoEnd"`
	WorkTuBegin string `json:"WorkTuBegin"`
	WorkTuEnd   string `json:"WorkTuEnd"`
	WorkWeBegin string `json:"WorkWeBegin"`
	WorkWeEnd   string `json:"WorkWeEnd"`
	WorkThBegin string `json:"WorkThBegin"`
	WorkThEnd   string `json:"WorkThEnd"`
	WorkFrBegin string `json:"WorkFrBegin"`
	WorkFrEnd   string `json:"WorkFrEnd"`
	WorkSaBegin string `json:"WorkSaBegin"`
	WorkSaEnd   string `json:"WorkSaEnd"`
	WorkSuBegin string `json:"WorkSuBegin"`
	WorkSuEnd   string `json:"WorkSuEnd"`

	Area     string `json:"Area"`
	CityName string `json:"CityName"`
}

// DayHours -- часы работы одного дня недели. Пустые значения -- выходной.
type DayHours struct {
	Begin string
	End   string
}

// WorkHours возвращает пары открытия/закрытия с понедельника по воскресенье.
func (p *PickupPoint) WorkHours() [7]DayHours {
	return [7]DayHours{
		{p.WorkMoBegin, p.WorkMoEnd},
		{p.WorkTuBegin, p.WorkTuEnd},
		{p.WorkWeBegin, p.WorkWeEnd},
		{p.WorkThBegin, p.WorkThEnd},
		{p.WorkFrBegin, p.WorkFrEnd},
		{p.WorkSaBegin, p.WorkSaEnd},
		{p.WorkSuBegin, p.WorkSuEnd},
	}
}

// DeliveryQuote -- котировка DeliveryCosts. Поля указательные: отсутствие
// price или delivery_period означает, что точка непригодна для публикации.
type DeliveryQuote struct {
	Price          *float64 `json:"price"`
	DeliveryPeriod *int     `json:"delivery_period"`
}
