// Package client talks to the library catalog over HTTP.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const defaultTimeout = 3 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNotFound    = errors.New("library: not found")
	ErrBadStatus   = errors.New("library: bad status")
	ErrUnavailable = errors.New("library: unavailable")
)

type Book struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTP = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]Book, error) {
	var out []Book
	err := c.do(ctx, http.MethodGet, "/books", nil, &out)
	return out, err
}

// Insert returns a book to the library.
func (c *Client) Insert(ctx context.Context, b Book) (Book, error) {
	var out Book
	err := c.do(ctx, http.MethodPost, "/books", b, &out)
	return out, err
}

// Take fetches the book called name, removing it from the library.
func (c *Client) Take(ctx context.Context, name string) (Book, error) {
	var out Book
	err := c.do(ctx, http.MethodGet, "/books/name/"+url.PathEscape(name), nil, &out)
	return out, err
}

// Replace puts b in place of the book called name and returns the displaced one.
func (c *Client) Replace(ctx context.Context, name string, b Book) (Book, error) {
	var out Book
	err := c.do(ctx, http.MethodPost, "/books/name/"+url.PathEscape(name), b, &out)
	return out, err
}

func (c *Client) ByAuthor(ctx context.Context, author string) ([]Book, error) {
	var out []Book
	err := c.do(ctx, http.MethodGet, "/books/author/"+url.PathEscape(author), nil, &out)
	return out, err
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, readMessage(resp.Body))
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func readMessage(r io.Reader) string {
	var eb errorBody
	if err := json.NewDecoder(r).Decode(&eb); err != nil || eb.Error == "" {
		return "no message"
	}
	return eb.Error
}
