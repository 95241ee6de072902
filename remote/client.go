package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/budget"
)

// Client is a RemoteStore talking to a document server over HTTP.
type Client struct {
	base string
	http *http.Client
	// Verbose logs every request.
	Verbose bool
}

// NewClient returns a client of the document server at base, e.g. "http://localhost:8080".
// A nil client uses http.DefaultClient.
func NewClient(base string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{base: strings.TrimRight(base, "/"), http: client}
}

// DocumentURL returns the URL of the user's document.
func (c *Client) DocumentURL(user string) string {
	return fmt.Sprintf("%s/v1/users/%s/document", c.base, url.PathEscape(user))
}

func (c *Client) do(ctx context.Context, method, addr string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, addr, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		log.Printf("%v %v/%v %v", method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, user string) (*budget.Document, error) {
	resp, err := c.do(ctx, http.MethodGet, c.DocumentURL(user), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, budget.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cannot http GET %v: %v", resp.Request.URL.Path, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return budget.DecodeDocument(b)
}

func (c *Client) MergeWrite(ctx context.Context, user string, doc *budget.Document, fields []string) error {
	patch, err := patchOf(doc, fields)
	if err != nil {
		return err
	}
	b, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPatch, c.DocumentURL(user), b)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cannot http PATCH %v: %v: %s", resp.Request.URL.Path, resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
