package httpx

import (
	"crypto/tls"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Client struct {
	httpClient *http.Client
	transport  *http.Transport
}

// NewHTTPClient returns a default HTTP client with default options
func NewHTTPClient() *Client {
	return NewClientWithOptions(WithTimeout(httpClientDefaultTimeout))
}

// NewClientWithOptions creates a configurable HTTP Client
func NewClientWithOptions(options ...Option) *Client {
	client := &Client{
		transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{},
		},
	}

	client.httpClient = &http.Client{}

	for _, opt := range options {
		opt(client)
	}

	client.httpClient.Transport = client.transport

	return client
}

// CloseIdleConnections closes the idle keep-alive connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
