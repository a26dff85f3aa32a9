/*
Package client provides easy and fast in-process access to a REST api

Instead of marshalling HTTP, the client talks directly to the mux router. The client
is the tool of choice if one request handler needs to call other handlers to fulfill
its task. It is also perfectly suited for unit tests.
*/
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/gorilla/mux"

	"github.com/openwidget/widgetkit/core/access"
)

// Client provides easy access to the REST API.
type Client struct {
	router     *mux.Router
	httpClient *http.Client
	url        string
	token      string
	auth       *access.Authorization
	ctx        context.Context

	defaultHeaders map[string]string
}

// NewWithRouter creates a client to make pseudo-REST requests to the backend,
// through the mux router
//
// WithAuthorization() adds an authorization to the request context.
// WithContext() specifies a different base context all together.
func NewWithRouter(router *mux.Router) Client {
	return Client{
		router:         router,
		defaultHeaders: map[string]string{},
	}
}

// NewWithURL creates a client to make REST requests to the backend
//
// WithToken adds an authorization token to the request header.
func NewWithURL(url string) Client {
	return Client{
		url:            url,
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		defaultHeaders: map[string]string{},
	}
}

// WithHeader returns a new client with a default header added
func (c Client) WithHeader(key string, value string) Client {
	c.defaultHeaders[key] = value
	return c
}

// WithToken returns a new client with a bearer token added
func (c Client) WithToken(token string) Client {
	c.token = token
	return c
}

// WithAuthorization returns a new client with specific authorizations
// (this works only directly against the mux router, for a normal client
// use WithToken())
func (c Client) WithAuthorization(auth *access.Authorization) Client {
	c.auth = auth
	return c
}

// WithContext returns a new client with specific request context
func (c Client) WithContext(ctx context.Context) Client {
	c.ctx = ctx
	return c
}

// Context returns the request context for this client
func (c Client) Context() context.Context {
	ctx := c.ctx
	if c.ctx == nil {
		ctx = context.Background()
	}
	if c.auth != nil {
		ctx = c.auth.ContextWithAuthorization(ctx)
	}
	return ctx
}

func (c Client) do(r *http.Request) (status int, body []byte, err error) {
	for key, value := range c.defaultHeaders {
		r.Header.Add(key, value)
	}
	if c.token != "" {
		r.Header.Add("Authorization", "Bearer "+c.token)
	}

	if c.router != nil {
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, r)
		return rec.Code, rec.Body.Bytes(), nil
	}

	res, err := c.httpClient.Do(r)
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	defer res.Body.Close()
	body, _ = io.ReadAll(res.Body)
	return res.StatusCode, body, nil
}

// RawGet gets the resource from path. Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
//
// The path can be extended with query strings.
//
// result can be map[string]interface{} or a raw *[]byte.
// result can be nil.
func (c Client) RawGet(path string, result interface{}) (int, error) {
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodGet, c.url+path, nil)
	status, resBody, err := c.do(r)
	if err != nil {
		return status, err
	}
	if status == http.StatusNoContent {
		return status, nil
	}
	if status != http.StatusOK {
		return status, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, http.StatusOK, strings.TrimSpace(string(resBody)))
	}
	return status, unmarshalResult(resBody, result)
}

// RawPost posts a resource to path. Expects http.StatusOK or http.StatusCreated
// as valid responses, otherwise it will flag an error. Returns the actual http
// status code.
//
// body can also be a []byte, result can also be raw *[]byte.
// result can be nil.
func (c Client) RawPost(path string, body interface{}, result interface{}) (int, error) {
	j, err := marshalBody(body)
	if err != nil {
		return http.StatusBadRequest, fmt.Errorf("POST to %s: %w", path, err)
	}

	r, _ := http.NewRequestWithContext(c.Context(), http.MethodPost, c.url+path, bytes.NewBuffer(j))
	status, resBody, err := c.do(r)
	if err != nil {
		return status, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return status, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, http.StatusOK, strings.TrimSpace(string(resBody)))
	}
	return status, unmarshalResult(resBody, result)
}

// RawDelete deletes the resource at path. Expects http.StatusNoContent as response,
// otherwise it will flag an error.
//
// Returns the actual http status code.
func (c Client) RawDelete(path string) (int, error) {
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodDelete, c.url+path, nil)
	status, resBody, err := c.do(r)
	if err != nil {
		return status, err
	}
	if status != http.StatusNoContent {
		return status, errors.New(strings.TrimSpace(string(resBody)))
	}
	return status, nil
}

func marshalBody(body interface{}) ([]byte, error) {
	if j, ok := body.([]byte); ok {
		return j, nil
	}
	return json.Marshal(body)
}

func unmarshalResult(resBody []byte, result interface{}) error {
	if resBody == nil || result == nil {
		return nil
	}
	if raw, ok := result.(*[]byte); ok {
		*raw = resBody
		return nil
	}
	return json.Unmarshal(resBody, result)
}
