package clients

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Request -- подготовленный запрос. Значение иммутабельно после сборки:
// каждая логическая операция получает собственную копию параметров шаблона.
type Request struct {
	Method string
	URL    string
	Params map[string]string
	Body   []byte
}

// Template -- базовый шаблон клиента: URL сервиса плюс фиксированные
// авторизационные параметры. Билдеры никогда не мутируют сам шаблон.
type Template struct {
	URL    string
	Params map[string]string
}

// WithURL returns a copy of the template pointing at another endpoint,
// keeping the auth params.
func (t Template) WithURL(u string) Template {
	return Template{URL: u, Params: t.Params}
}

func (t Template) copyParams() map[string]string {
	params := make(map[string]string, len(t.Params))
	for k, v := range t.Params {
		params[k] = v
	}
	return params
}

func (t Template) PrepareGet(params map[string]string) Request {
	merged := t.copyParams()
	for k, v := range params {
		merged[k] = v
	}
	return Request{Method: "GET", URL: t.URL, Params: merged}
}

func (t Template) PreparePost(payload interface{}) (Request, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return Request{}, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}
	return Request{Method: "POST", URL: t.URL, Params: t.copyParams(), Body: body}, nil
}

func (t Template) PreparePut(payload interface{}) (Request, error) {
	rq, err := t.PreparePost(payload)
	if err != nil {
		return Request{}, err
	}
	rq.Method = "PUT"
	return rq, nil
}

func (t Template) PrepareDelete() Request {
	return Request{Method: "DELETE", URL: t.URL, Params: t.copyParams()}
}

// fullURL кодирует query-параметры поверх базового URL.
func (r Request) fullURL() string {
	if len(r.Params) == 0 {
		return r.URL
	}
	q := url.Values{}
	for k, v := range r.Params {
		q.Set(k, v)
	}
	return r.URL + "?" + q.Encode()
}
