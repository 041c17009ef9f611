package apierr

import (
	"errors"
	"fmt"
)

// ConnectionError -- сервис недоступен: таймаут, 5xx, 404 или сервисный
// транзиентный код. Всегда имеет смысл повторить запрос.
type ConnectionError struct {
	Service  string
	Attempts int
	Body     string
}

func (e *ConnectionError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s: can not get data after %d attempts. %s", e.Service, e.Attempts, e.Body)
	}
	return fmt.Sprintf("%s returned 5xx code. Message: %s", e.Service, e.Body)
}

// RequestError -- сервис отклонил запрос как невалидный. Повтор бесполезен.
type RequestError struct {
	Service string
	Status  int
	Body    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s returned error code %d. Message: %s", e.Service, e.Status, e.Body)
}

// ParseError -- тело ответа или данные точки не соответствуют ожидаемой
// схеме (конверт err, отсутствующие поля котировки, регион, телефон).
// Элемент пропускается, прогон продолжается.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

func NewParseError(format string, v ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, v...)}
}

func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

func IsRequest(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
