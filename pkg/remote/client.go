package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/covenant/covenant-terminal/pkg/models"
)

const defaultTimeout = 15 * time.Second

// Client talks to the church operations API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New builds a client from the API settings. A nil logger discards.
func New(cfg models.APISettings, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Plans() *Plans     { return &Plans{c: c} }
func (c *Client) Forms() *Forms     { return &Forms{c: c} }
func (c *Client) Folders() *Folders { return &Folders{c: c} }

type errorBody struct {
	Detail     any    `json:"detail"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	ExistingID string `json:"existing_id"`
}

func (b errorBody) text() string {
	switch d := b.Detail.(type) {
	case string:
		return d
	case map[string]any:
		if m, ok := d["message"].(string); ok {
			return m
		}
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// do sends a request and decodes a 2xx JSON response into out when out is
// not nil. Every failure is returned as *Error.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Kind: ErrInvalid, Message: fmt.Sprintf("encode body: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Op: op, Kind: ErrUnexpected, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "method", method, "path", path, "err", err)
		return &Error{Op: op, Kind: ErrTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Kind: ErrTransient, Message: fmt.Sprintf("read body: %v", err)}
	}
	c.logger.Debug("request", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{
			Op:         op,
			Status:     resp.StatusCode,
			Kind:       kindOf(resp.StatusCode),
			ExistingID: eb.ExistingID,
			Message:    msg,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Kind: ErrUnexpected, Message: fmt.Sprintf("malformed body: %v", err)}
	}
	return nil
}

type created struct {
	ID string `json:"id"`
}

func (c *Client) create(ctx context.Context, op, path string, body any) (string, error) {
	var out created
	if err := c.do(ctx, op, http.MethodPost, path, nil, body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &Error{Op: op, Status: http.StatusCreated, Kind: ErrUnexpected, Message: "response carries no id"}
	}
	return out.ID, nil
}

// Plans is the reading plan collection.
type Plans struct{ c *Client }

func (p *Plans) Get(ctx context.Context, id string) (models.ReadingPlan, error) {
	var doc models.ReadingPlan
	if err := p.c.do(ctx, "get plan", http.MethodGet, "/plans/"+url.PathEscape(id), nil, nil, &doc); err != nil {
		return models.ReadingPlan{}, err
	}
	if doc.ID == "" {
		doc.ID = id
	}
	if doc.Readings == nil {
		doc.Readings = map[int][]models.Passage{}
	}
	return doc, nil
}

func (p *Plans) Create(ctx context.Context, doc models.ReadingPlan) (string, error) {
	doc.ID = ""
	return p.c.create(ctx, "create plan", "/plans", doc)
}

func (p *Plans) Update(ctx context.Context, id string, doc models.ReadingPlan) error {
	doc.ID = id
	return p.c.do(ctx, "update plan", http.MethodPut, "/plans/"+url.PathEscape(id), nil, doc, nil)
}

// Forms is the form schema collection.
type Forms struct{ c *Client }

func (f *Forms) Get(ctx context.Context, id string) (models.FormSchema, error) {
	var doc models.FormSchema
	if err := f.c.do(ctx, "get form", http.MethodGet, "/forms/"+url.PathEscape(id), nil, nil, &doc); err != nil {
		return models.FormSchema{}, err
	}
	if doc.ID == "" {
		doc.ID = id
	}
	if doc.Fields == nil {
		doc.Fields = []models.Field{}
	}
	return doc, nil
}

func (f *Forms) Create(ctx context.Context, doc models.FormSchema) (string, error) {
	doc.ID = ""
	return f.c.create(ctx, "create form", "/forms", doc)
}

func (f *Forms) Update(ctx context.Context, id string, doc models.FormSchema) error {
	doc.ID = id
	return f.c.do(ctx, "update form", http.MethodPut, "/forms/"+url.PathEscape(id), nil, doc, nil)
}

// Folders groups form schemas.
type Folders struct{ c *Client }

func (f *Folders) List(ctx context.Context) ([]models.Folder, error) {
	var out []models.Folder
	if err := f.c.do(ctx, "list folders", http.MethodGet, "/forms/folders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a folder. A duplicate name fails with ErrConflict.
func (f *Folders) Create(ctx context.Context, name string) (models.Folder, error) {
	var out models.Folder
	q := url.Values{"name": {name}}
	if err := f.c.do(ctx, "create folder", http.MethodPost, "/forms/folders", q, nil, &out); err != nil {
		return models.Folder{}, err
	}
	return out, nil
}
