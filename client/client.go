// Package client is a Go client for the Bollywood news API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	http.Client
	Addr string
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article mirrors the server's JSON representation.
type Article struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Slug        string    `json:"slug,omitempty"`
	Content     string    `json:"content,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Author      *Author   `json:"author,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// APIError is returned for every non 2xx response.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Detail     string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("bollywood api: %d %s: %s", e.StatusCode, e.Message, e.Detail)
	}

	return fmt.Sprintf("bollywood api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Ping calls the liveness route and returns its body.
func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest("GET", c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

func (c *Client) List(ctx context.Context) ([]Article, error) {
	var out []Article

	return out, c.do(ctx, http.MethodGet, "/bollywood", nil, &out)
}

func (c *Client) ListByCategory(ctx context.Context, category string) ([]Article, error) {
	var out []Article

	return out, c.do(ctx, http.MethodGet, "/bollywood/"+url.PathEscape(category), nil, &out)
}

func (c *Client) ListByTag(ctx context.Context, tag string) ([]Article, error) {
	var out []Article

	return out, c.do(ctx, http.MethodGet, "/bollywood/tags/"+url.PathEscape(tag), nil, &out)
}

func (c *Client) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodGet, "/bollywood/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Create(ctx context.Context, a *Article) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodPost, "/bollywood", a, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Update sends fields as a partial update; only the keys present change.
func (c *Client) Update(ctx context.Context, id string, fields map[string]interface{}) (*Article, error) {
	var out Article
	if err := c.do(ctx, http.MethodPut, "/bollywood/"+url.PathEscape(id), fields, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	var out struct {
		Message string `json:"message"`
	}

	return c.do(ctx, http.MethodDelete, "/bollywood/"+url.PathEscape(id), nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.Addr, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}

		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
