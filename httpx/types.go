package httpx

import (
	"net/http"
	"net/url"
	"time"

	"github.com/clinia/solrx/errorx"
)

const httpClientDefaultTimeout = 60 * time.Second

// Request describes a single HTTP call. A non nil Body is sent as JSON.
type Request struct {
	Method          string `validate:"required,oneof=GET POST PUT PATCH DELETE HEAD"`
	URL             string `validate:"required,url"`
	Body            any
	Headers         http.Header
	QueryParameters url.Values
}

func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errorx.InvalidArgumentErrorf("invalid http request: %s", err).WithOriginalError(err)
	}
	return nil
}

// Response holds the fully read body of a call, whatever its status.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Duration   time.Duration
}

// IsError reports whether the response carries a non 2xx status.
func (r *Response) IsError() bool {
	return r.StatusCode > 299 || r.StatusCode < 200
}
