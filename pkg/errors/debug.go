package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	Upstream   string `json:"upstream,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
}

// UpstreamError records the non-2xx answer of a third-party API.
type UpstreamError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Upstream, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		d.Upstream = upErr.Upstream
		d.HTTPStatus = upErr.StatusCode
	}

	return d
}
