// Package crmapi is the typed client for the remote CRM API. Every response
// passes through the normalization in normalize.go, so callers only ever see
// canonical entity records and classified *entity.Error failures.
package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/http/middleware"
	"github.com/xavierca1/leadboard/internal/logger"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// do sends one request and returns the decoded, date-transformed body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (any, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	c.setHeaders(req)

	start := time.Now()
	c.log.Debug("crm api request", logger.String("method", method), logger.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("crm api unreachable",
			logger.String("method", method),
			logger.String("path", path),
			logger.Error(err),
		)
		return nil, c.fail(NetworkError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(NetworkError(err))
	}

	var decoded any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = nil
		}
	}

	c.log.Debug("crm api response",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyMap, _ := decoded.(map[string]any)
		apiErr := ClassifyResponse(resp.StatusCode, bodyMap)
		c.log.Warn("crm api error",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("kind", string(apiErr.Kind)),
			logger.String("message", apiErr.Message),
		)
		return nil, c.fail(apiErr)
	}

	return TransformDates(decoded), nil
}

func (c *Client) fail(e *entity.Error) error {
	middleware.RecordIntegrationError("crm", string(e.Kind))
	return e
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func (c *Client) ListLeads(ctx context.Context, filter entity.FilterSpec) ([]entity.Lead, error) {
	body, err := c.do(ctx, http.MethodGet, "/leads", filter.Values(), nil)
	if err != nil {
		return nil, err
	}
	recs := records(body)
	leads := make([]entity.Lead, 0, len(recs))
	for _, r := range recs {
		leads = append(leads, LeadFromRecord(r))
	}
	return leads, nil
}

func (c *Client) GetLead(ctx context.Context, id string) (entity.Lead, error) {
	body, err := c.do(ctx, http.MethodGet, "/leads/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return entity.Lead{}, err
	}
	return LeadFromRecord(record(body)), nil
}

func (c *Client) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	body, err := c.do(ctx, http.MethodPost, "/leads", nil, in)
	if err != nil {
		return entity.Lead{}, err
	}
	return LeadFromRecord(record(body)), nil
}

func (c *Client) UpdateLead(ctx context.Context, id string, in entity.LeadInput) (entity.Lead, error) {
	body, err := c.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id), nil, in)
	if err != nil {
		return entity.Lead{}, err
	}
	return LeadFromRecord(record(body)), nil
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/leads/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) ListAgents(ctx context.Context) ([]entity.Agent, error) {
	body, err := c.do(ctx, http.MethodGet, "/agents", nil, nil)
	if err != nil {
		return nil, err
	}
	recs := records(body)
	agents := make([]entity.Agent, 0, len(recs))
	for _, r := range recs {
		agents = append(agents, AgentFromRecord(r))
	}
	return agents, nil
}

func (c *Client) CreateAgent(ctx context.Context, in entity.AgentInput) (entity.Agent, error) {
	body, err := c.do(ctx, http.MethodPost, "/agents", nil, in)
	if err != nil {
		return entity.Agent{}, err
	}
	return AgentFromRecord(record(body)), nil
}

func (c *Client) DeleteAgent(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/agents/"+url.PathEscape(id), nil, nil)
	return err
}

// ListTags accepts both ["a","b"] and [{"name":"a"}] shapes.
func (c *Client) ListTags(ctx context.Context) ([]entity.Tag, error) {
	body, err := c.do(ctx, http.MethodGet, "/tags", nil, nil)
	if err != nil {
		return nil, err
	}
	arr, _ := body.([]any)
	tags := make([]entity.Tag, 0, len(arr))
	for _, item := range arr {
		if name, ok := tagName(item); ok {
			tags = append(tags, entity.Tag(name))
		}
	}
	return tags, nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (entity.Tag, error) {
	body, err := c.do(ctx, http.MethodPost, "/tags", nil, entity.TagInput{Name: name})
	if err != nil {
		return "", err
	}
	if created, ok := tagName(body); ok {
		return entity.Tag(created), nil
	}
	return entity.Tag(name), nil
}

func (c *Client) ListComments(ctx context.Context, leadID string) ([]entity.Comment, error) {
	body, err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(leadID)+"/comments", nil, nil)
	if err != nil {
		return nil, err
	}
	recs := records(body)
	comments := make([]entity.Comment, 0, len(recs))
	for _, r := range recs {
		comments = append(comments, CommentFromRecord(r, leadID))
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, leadID string, in entity.CommentInput) (entity.Comment, error) {
	body, err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(leadID)+"/comments", nil, in)
	if err != nil {
		return entity.Comment{}, err
	}
	return CommentFromRecord(record(body), leadID), nil
}

// LastWeekReport returns the leads closed during the last seven days.
func (c *Client) LastWeekReport(ctx context.Context) ([]entity.Lead, error) {
	body, err := c.do(ctx, http.MethodGet, "/report/last-week", nil, nil)
	if err != nil {
		return nil, err
	}
	recs := records(body)
	leads := make([]entity.Lead, 0, len(recs))
	for _, r := range recs {
		leads = append(leads, LeadFromRecord(r))
	}
	return leads, nil
}

func (c *Client) PipelineReport(ctx context.Context) (entity.PipelineReport, error) {
	body, err := c.do(ctx, http.MethodGet, "/report/pipeline", nil, nil)
	if err != nil {
		return entity.PipelineReport{}, err
	}
	return entity.PipelineReport{TotalLeadsInPipeline: intField(record(body), "totalLeadsInPipeline")}, nil
}

func (c *Client) ClosedByAgentReport(ctx context.Context) ([]entity.ClosedByAgent, error) {
	body, err := c.do(ctx, http.MethodGet, "/report/closed-by-agent", nil, nil)
	if err != nil {
		return nil, err
	}
	recs := records(body)
	rows := make([]entity.ClosedByAgent, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, ClosedByAgentFromRecord(r))
	}
	return rows, nil
}
