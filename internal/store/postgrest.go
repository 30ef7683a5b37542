package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"
)

// APIError is the error body PostgREST returns on non-2xx responses.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("postgrest %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("postgrest %d: %s", e.Status, msg)
}

// PostgREST executes requests against a Supabase-style REST endpoint.
type PostgREST struct {
	client *resty.Client
}

// NewPostgREST creates a PostgREST executor for baseURL authenticated with key.
// A zero timeout leaves requests unbounded.
func NewPostgREST(baseURL, key string, timeout time.Duration) (*PostgREST, error) {
	if baseURL == "" || key == "" {
		return nil, fmt.Errorf("postgrest: url and key are required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("postgrest: invalid url %q", baseURL)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetHeader("apikey", key).
		SetHeader("Authorization", "Bearer "+key).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &PostgREST{client: client}, nil
}

// Close releases the underlying HTTP client.
func (p *PostgREST) Close() error {
	return p.client.Close()
}

// Execute translates req into one REST call.
func (p *PostgREST) Execute(ctx context.Context, req Request) ([]Row, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	method, params, body := restCall(req)
	r := p.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params)
	if body != nil {
		r.SetHeader("Content-Type", "application/json").
			SetHeader("Prefer", "return=minimal").
			SetBody(body)
	}

	res, err := r.Execute(method, "/"+url.PathEscape(req.Table))
	if err != nil {
		return nil, fmt.Errorf("postgrest %s %s: %w", req.Op, req.Table, err)
	}

	raw := res.String()
	if res.StatusCode() >= http.StatusBadRequest {
		apiErr := &APIError{Status: res.StatusCode()}
		if raw != "" {
			_ = json.Unmarshal([]byte(raw), apiErr)
		}
		return nil, apiErr
	}

	if req.Op != OpSelect || raw == "" {
		return nil, nil
	}
	var rows []Row
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("postgrest decode %s: %w", req.Table, err)
	}
	return rows, nil
}

// restCall maps a request to the HTTP method, query and body PostgREST expects.
func restCall(req Request) (string, url.Values, any) {
	params := url.Values{}
	for _, f := range req.Filters {
		params.Add(f.Column, "eq."+fmt.Sprint(f.Value))
	}

	switch req.Op {
	case OpInsert:
		return http.MethodPost, params, req.Rows
	case OpUpdate:
		return http.MethodPatch, params, req.Patch
	case OpDelete:
		return http.MethodDelete, params, nil
	}

	params.Set("select", "*")
	if req.Sort != nil {
		dir := "desc"
		if req.Sort.Ascending {
			dir = "asc"
		}
		params.Set("order", req.Sort.Column+"."+dir)
	}
	return http.MethodGet, params, nil
}
