package yandexmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gopointsync_api/internal/apierr"
	"gopointsync_api/internal/clients"
)

const (
	serviceName   = "YandexMarket"
	defaultAPIURL = "https://api.partner.market.yandex.ru/v2/"

	// Сколько раз переспрашиваем справочник регионов, если он ответил
	// пустым списком. Транзиентные сбои повторяются ниже, в ядре клиента.
	regionLookupAttempts = 3
)

// Административные типы, на которых останавливается подъём по дереву
// регионов.
var adminRegionTypes = map[string]struct{}{
	"TOWN":          {},
	"CITY":          {},
	"REPUBLIC_AREA": {},
}

// Client -- адаптер партнёрского API Яндекс.Маркета. Использует базовый
// классификатор без переопределения.
type Client struct {
	caller      *clients.HTTPCaller
	base        clients.Template
	apiURL      string
	campaignID  string
	pageLimiter *rate.Limiter
	log         *zap.SugaredLogger
}

func NewClient(token, clientID, campaignID, apiURL string, attempts int, log *zap.SugaredLogger) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		caller: clients.NewHTTPCaller(serviceName, clients.BaseClassify(serviceName), attempts, log),
		base: clients.Template{
			URL: apiURL,
			Params: map[string]string{
				"oauth_token":     token,
				"oauth_client_id": clientID,
			},
		},
		apiURL:     apiURL,
		campaignID: campaignID,
		// Пауза вежливости между страницами: 1 запрос в секунду.
		pageLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:         log,
	}
}

func (c *Client) Caller() *clients.HTTPCaller {
	return c.caller
}

// SetPageLimiter overrides the per-page limiter.
func (c *Client) SetPageLimiter(l *rate.Limiter) {
	c.pageLimiter = l
}

func (c *Client) outletsTemplate() clients.Template {
	return c.base.WithURL(fmt.Sprintf("%scampaigns/%s/outlets.json", c.apiURL, c.campaignID))
}

func (c *Client) outletTemplate(outletID int64) clients.Template {
	return c.base.WithURL(fmt.Sprintf("%scampaigns/%s/outlets/%d.json", c.apiURL, c.campaignID, outletID))
}

func (c *Client) regionsTemplate() clients.Template {
	return c.base.WithURL(c.apiURL + "regions.json")
}

// multipageGet собирает страницы листинга: поле paging может отсутствовать
// (единственная страница), иначе листаем, пока приходит nextPageToken.
func (c *Client) multipageGet(ctx context.Context, tmpl clients.Template, listName string) ([]json.RawMessage, error) {
	rq := tmpl.PrepareGet(nil)

	var page map[string]json.RawMessage
	if err := c.caller.Send(ctx, rq, &page); err != nil {
		return nil, err
	}

	items, err := pageItems(page, listName)
	if err != nil {
		return nil, err
	}

	for {
		token, ok := nextPageToken(page)
		if !ok {
			return items, nil
		}
		if err := c.pageLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		rq = tmpl.PrepareGet(map[string]string{"page_token": token})
		page = nil
		if err := c.caller.Send(ctx, rq, &page); err != nil {
			return nil, err
		}
		newItems, err := pageItems(page, listName)
		if err != nil {
			return nil, err
		}
		items = append(items, newItems...)
	}
}

func pageItems(page map[string]json.RawMessage, listName string) ([]json.RawMessage, error) {
	raw, ok := page[listName]
	if !ok {
		return nil, apierr.NewParseError("YandexMarket response has no %q field", listName)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apierr.NewParseError("can not decode %q list: %v", listName, err)
	}
	return items, nil
}

func nextPageToken(page map[string]json.RawMessage) (string, bool) {
	raw, ok := page["paging"]
	if !ok {
		return "", false
	}
	var paging Paging
	if err := json.Unmarshal(raw, &paging); err != nil || paging.NextPageToken == "" {
		return "", false
	}
	return paging.NextPageToken, true
}

// Main methods

func (c *Client) GetPublishedOutlets(ctx context.Context) ([]Outlet, error) {
	items, err := c.multipageGet(ctx, c.outletsTemplate(), "outlets")
	if err != nil {
		return nil, err
	}
	outlets := make([]Outlet, 0, len(items))
	for _, item := range items {
		var outlet Outlet
		if err := json.Unmarshal(item, &outlet); err != nil {
			return nil, apierr.NewParseError("can not decode outlet: %v", err)
		}
		outlets = append(outlets, outlet)
	}
	return outlets, nil
}

// GetOutletsByType возвращает опубликованные точки, чей код содержит
// заданный тег (bxb, self, sdek) как компонент через "_", ключ -- код точки.
func (c *Client) GetOutletsByType(ctx context.Context, outletType string) (map[string]Outlet, error) {
	outlets, err := c.GetPublishedOutlets(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]Outlet)
	for _, outlet := range outlets {
		if outlet.ShopOutletCode == "" {
			continue
		}
		for _, part := range strings.Split(outlet.ShopOutletCode, "_") {
			if part == outletType {
				byCode[outlet.ShopOutletCode] = outlet
				break
			}
		}
	}
	return byCode, nil
}

func (c *Client) PostOutlet(ctx context.Context, outlet *Outlet) error {
	rq, err := c.outletsTemplate().PreparePost(outlet)
	if err != nil {
		return err
	}
	return c.caller.Send(ctx, rq, nil)
}

func (c *Client) UpdateOutlet(ctx context.Context, outletID int64, outlet *Outlet) error {
	rq, err := c.outletTemplate(outletID).PreparePut(outlet)
	if err != nil {
		return err
	}
	return c.caller.Send(ctx, rq, nil)
}

func (c *Client) DeleteOutlet(ctx context.Context, outletID int64) error {
	rq := c.outletTemplate(outletID).PrepareDelete()
	return c.caller.Send(ctx, rq, nil)
}

// GetRegionID находит id региона маркетплейса по имени города. Пустой ответ
// справочника переспрашивается фиксированное число раз; неоднозначные
// кандидаты разрешаются по имени области в цепочке предков. Возвращает 0,
// если подходящего узла не нашлось.
func (c *Client) GetRegionID(ctx context.Context, cityName, areaName string) (int64, error) {
	var lastErr error

	for attempt := 0; attempt < regionLookupAttempts; attempt++ {
		regions, err := c.getRegionsByName(ctx, cityName)
		if err != nil {
			if apierr.IsRequest(err) {
				lastErr = err
				continue
			}
			return 0, err
		}

		if len(regions) == 1 {
			id, _ := walkParentChain(&regions[0])
			return id, nil
		}

		// Одноимённые города в разных областях: принимаем кандидата,
		// в предках которого встретилось объявленное имя области.
		for i := range regions {
			id, names := walkParentChain(&regions[i])
			for _, name := range names {
				if name == areaName {
					return id, nil
				}
			}
		}
		return 0, nil
	}

	return 0, lastErr
}

func (c *Client) getRegionsByName(ctx context.Context, name string) ([]Region, error) {
	rq := c.regionsTemplate().PrepareGet(map[string]string{"name": name})

	var response struct {
		Regions []Region `json:"regions"`
	}
	if err := c.caller.Send(ctx, rq, &response); err != nil {
		return nil, err
	}
	if len(response.Regions) == 0 {
		return nil, &apierr.RequestError{Service: serviceName, Body: fmt.Sprintf("no regions found for %q", name)}
	}
	return response.Regions, nil
}

// walkParentChain поднимается по дереву до первого узла административного
// типа, попутно собирая имена всех пройденных узлов.
func walkParentChain(region *Region) (int64, []string) {
	var (
		id    int64
		names []string
	)
	for node := region; node != nil; node = node.Parent {
		names = append(names, node.Name)
		if id == 0 {
			if _, ok := adminRegionTypes[node.Type]; ok {
				id = node.ID
			}
		}
	}
	return id, names
}
