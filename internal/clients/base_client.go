package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gopointsync_api/internal/apierr"
	"gopointsync_api/metrics"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 10 * time.Second
)

// Classifier разбирает ответ сервиса: nil -- успех, дальше тело можно
// декодировать. Каждый партнёр кодирует бизнес-ошибки по-своему, поэтому
// классификатор подставляется адаптером.
type Classifier func(status int, body []byte) error

// BaseClassify: 5xx и 404 -- транзиентная ошибка, прочие не-2xx --
// невалидный запрос.
func BaseClassify(service string) Classifier {
	return func(status int, body []byte) error {
		if status >= 500 || status == http.StatusNotFound {
			return &apierr.ConnectionError{Service: service, Body: string(body)}
		}
		if status < 200 || status > 299 {
			return &apierr.RequestError{Service: service, Status: status, Body: string(body)}
		}
		return nil
	}
}

// HTTPCaller -- ядро клиента: отправляет подготовленный запрос, повторяет
// транзиентные сбои с фиксированной паузой, декодирует успешное тело.
type HTTPCaller struct {
	service     string
	client      *http.Client
	classify    Classifier
	maxAttempts int
	retryDelay  time.Duration
	log         *zap.SugaredLogger
}

func NewHTTPCaller(service string, classify Classifier, maxAttempts int, log *zap.SugaredLogger) *HTTPCaller {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &HTTPCaller{
		service:     service,
		client:      &http.Client{Timeout: defaultTimeout},
		classify:    classify,
		maxAttempts: maxAttempts,
		retryDelay:  defaultRetryDelay,
		log:         log,
	}
}

// SetRetryDelay overrides the pause between retries.
func (c *HTTPCaller) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// SetTimeout overrides the per-request timeout.
func (c *HTTPCaller) SetTimeout(d time.Duration) {
	c.client.Timeout = d
}

func (c *HTTPCaller) Service() string {
	return c.service
}

// Send выполняет до maxAttempts попыток. Транспортная ошибка -- сразу новая
// попытка без сна; транзиентный код -- пауза и повтор; невалидный запрос --
// немедленный возврат. out может быть nil, если тело не нужно.
func (c *HTTPCaller) Send(ctx context.Context, rq Request, out interface{}) error {
	lastBody := "No response"

	for i := 0; i < c.maxAttempts; i++ {
		req, err := c.buildHTTPRequest(ctx, rq)
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			c.log.Warnf("%s did not respond. Attempt: %d: %v", c.service, i+1, err)
			metrics.RecordRetry(c.service)
			lastBody = err.Error()
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordRequest(c.service, rq.Method, resp.StatusCode, time.Since(start))
		if readErr != nil {
			c.log.Warnf("%s response body read failed. Attempt: %d: %v", c.service, i+1, readErr)
			metrics.RecordRetry(c.service)
			lastBody = readErr.Error()
			continue
		}
		lastBody = string(body)

		if cerr := c.classify(resp.StatusCode, body); cerr != nil {
			if apierr.IsConnection(cerr) {
				c.log.Warnf("%s did not respond. Attempt: %d", c.service, i+1)
				metrics.RecordRetry(c.service)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryDelay):
				}
				continue
			}
			c.log.Errorf("%s: %v", c.service, cerr)
			return cerr
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return apierr.NewParseError("can not decode %s response: %v", c.service, err)
		}
		return nil
	}

	return &apierr.ConnectionError{Service: c.service, Attempts: c.maxAttempts, Body: lastBody}
}

func (c *HTTPCaller) buildHTTPRequest(ctx context.Context, rq Request) (*http.Request, error) {
	var reader io.Reader
	if rq.Body != nil {
		reader = bytes.NewReader(rq.Body)
	}
	req, err := http.NewRequestWithContext(ctx, rq.Method, rq.fullURL(), reader)
	if err != nil {
		return nil, &apierr.RequestError{Service: c.service, Body: err.Error()}
	}
	if rq.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
