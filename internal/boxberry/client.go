package boxberry

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"gopointsync_api/internal/apierr"
	"gopointsync_api/internal/clients"
)

const (
	serviceName   = "Boxberry"
	defaultAPIURL = "https://api.boxberry.ru/json.php"

	// Boxberry отвечает 402 при исчерпании лимита запросов.
	statusRateLimited = 402
)

// Client -- адаптер курьерской сети Boxberry. Все операции идут через один
// json.php эндпоинт, метод передаётся query-параметром.
type Client struct {
	caller *clients.HTTPCaller
	base   clients.Template
	log    *zap.SugaredLogger
}

func NewClient(token, apiURL string, attempts int, log *zap.SugaredLogger) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		caller: clients.NewHTTPCaller(serviceName, Classify(serviceName), attempts, log),
		base: clients.Template{
			URL:    apiURL,
			Params: map[string]string{"token": token},
		},
		log: log,
	}
}

// Caller открывает ядро клиента для настройки пауз в тестах.
func (c *Client) Caller() *clients.HTTPCaller {
	return c.caller
}

// Classify: 5xx, 404 и 402 (rate limit) -- транзиентные; прочие не-2xx
// несут сервисный конверт ошибки в поле err.
func Classify(service string) clients.Classifier {
	return func(status int, body []byte) error {
		if status >= 500 || status == http.StatusNotFound || status == statusRateLimited {
			return &apierr.ConnectionError{Service: service, Body: string(body)}
		}
		if status < 200 || status > 299 {
			return decodeErrEnvelope(body)
		}
		return nil
	}
}

// decodeErrEnvelope вытаскивает поле err из тела, которое бывает и объектом,
// и массивом объектов. Тело без err возвращается вызывающему как есть --
// так ведёт себя сам сервис.
func decodeErrEnvelope(body []byte) error {
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(body, &asMap); err == nil {
		if raw, ok := asMap["err"]; ok {
			return &apierr.ParseError{Msg: rawToString(raw)}
		}
		return nil
	}

	var asList []map[string]json.RawMessage
	if err := json.Unmarshal(body, &asList); err == nil {
		if len(asList) > 0 {
			if raw, ok := asList[0]["err"]; ok {
				return &apierr.ParseError{Msg: rawToString(raw)}
			}
		}
		return nil
	}

	return apierr.NewParseError("can not convert Boxberry response to the list or dict")
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Main methods

func (c *Client) GetCities(ctx context.Context) ([]City, error) {
	rq := c.base.PrepareGet(map[string]string{"method": "ListCities"})
	var cities []City
	if err := c.caller.Send(ctx, rq, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *Client) GetPointsCodes(ctx context.Context, cityCode string) ([]PointShort, error) {
	params := map[string]string{"method": "ListPointsShort"}
	if cityCode != "" {
		params["CityCode"] = cityCode
	}
	rq := c.base.PrepareGet(params)
	var points []PointShort
	if err := c.caller.Send(ctx, rq, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) GetPointInfo(ctx context.Context, pointCode string) (*PickupPoint, error) {
	rq := c.base.PrepareGet(map[string]string{"method": "PointsDescription", "code": pointCode})
	var point PickupPoint
	if err := c.caller.Send(ctx, rq, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

func (c *Client) GetPointsDescription(ctx context.Context) ([]PickupPoint, error) {
	rq := c.base.PrepareGet(map[string]string{"method": "ListPoints"})
	var points []PickupPoint
	if err := c.caller.Send(ctx, rq, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetDeliveryCost запрашивает котировку для точки: объявленный вес посылки
// и дата отгрузки берутся из конфигурации.
func (c *Client) GetDeliveryCost(ctx context.Context, pointCode string, weight float64, shipDate string) (*DeliveryQuote, error) {
	params := map[string]string{
		"method": "DeliveryCosts",
		"target": pointCode,
		"weight": strconv.FormatFloat(weight, 'f', -1, 64),
	}
	if shipDate != "" {
		params["sday"] = shipDate
	}
	rq := c.base.PrepareGet(params)
	var quote DeliveryQuote
	if err := c.caller.Send(ctx, rq, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// Helpers

// CitiesOfRegions отбирает города, чей регион входит в настроенный список.
func (c *Client) CitiesOfRegions(ctx context.Context, regionNames []string) ([]City, error) {
	cities, err := c.GetCities(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(regionNames))
	for _, name := range regionNames {
		wanted[name] = struct{}{}
	}
	var matched []City
	for _, city := range cities {
		if _, ok := wanted[city.Region]; ok {
			matched = append(matched, city)
		}
	}
	return matched, nil
}

// CityCodes возвращает коды городов по именам; неизвестный город
// логируется и пропускается.
func (c *Client) CityCodes(ctx context.Context, cityNames []string) ([]string, error) {
	cities, err := c.GetCities(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(cities))
	for _, city := range cities {
		byName[city.Name] = city.Code
	}

	var codes []string
	for _, name := range cityNames {
		code, ok := byName[name]
		if !ok {
			c.log.Warnf("No city code found for city %s", name)
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// CityCodesOf достаёт коды из уже полученного списка городов.
func CityCodesOf(cities []City) []string {
	codes := make([]string, 0, len(cities))
	for _, city := range cities {
		codes = append(codes, city.Code)
	}
	return codes
}
