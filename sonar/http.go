package sonar

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
)

// Timeout bounds every request made by a Client.
const Timeout = 10 * time.Second

// DefaultPageSize is the page size used by AllIssues.
// SonarQube accepts at most 500.
const DefaultPageSize = 100

// ErrFetch is returned when issues could not be retrieved at all.
// The underlying cause is included in the message only.
var ErrFetch = errors.New("error getting project issues from SonarQube: check the host and token configuration")

var ErrInvalidArgument = errors.New("invalid argument")

// Client reads issues of one project from a SonarQube server.
// A Client holds no mutable state and is safe for concurrent use.
type Client struct {
	http    *http.Client
	host    string
	token   string
	auth    string
	project Project
	logger  arbor.ILogger
}

// NewClient returns a Client for the project described by conf.
// When conf leaves the project key or name empty,
// "owner-repo" is used in its place.
// A nil logger discards all messages.
func NewClient(owner, repo string, conf Config, logger arbor.ILogger) *Client {
	fallback := owner + "-" + repo
	p := Project{
		Key:     conf.ProjectKey,
		Name:    conf.ProjectName,
		BaseDir: conf.ProjectBaseDir,
	}
	if p.Key == "" {
		p.Key = fallback
	}
	if p.Name == "" {
		p.Name = fallback
	}
	if logger == nil {
		logger = silentLogger()
	}
	return &Client{
		http:    &http.Client{Timeout: Timeout},
		host:    conf.Host,
		token:   conf.Token,
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(conf.Token+":")),
		project: p,
		logger:  logger,
	}
}

func (c *Client) Project() Project { return c.project }
func (c *Client) Host() string     { return c.host }

// ScannerCommand returns the sonar-scanner command line for the client's project.
// Values are interpolated as configured, without quoting.
func (c *Client) ScannerCommand() string {
	return fmt.Sprintf("sonar-scanner -Dsonar.projectKey=%s -Dsonar.projectName=%s -Dsonar.sources=. -Dsonar.projectBaseDir=%s -Dsonar.login=%s -Dsonar.host.url=%s",
		c.project.Key, c.project.Name, c.project.BaseDir, c.token, c.host)
}

type searchParams struct {
	PageSize int    `validate:"gt=0"`
	Page     int    `validate:"gt=0"`
	Status   Status `validate:"oneof=OPEN CONFIRMED REOPENED RESOLVED CLOSED"`
}

var validate = validator.New()

// Issues returns the project's issues with the given status,
// starting at page and requesting pageSize issues per page.
// Following pages are requested in order until pageSize×page
// reaches the total reported by the server.
// An empty status means StatusOpen.
// Every page is requested with the same status,
// so later pages never fall back to StatusOpen.
//
// A page answered with a non-200 status or an empty body
// contributes no issues and ends the search;
// issues from earlier pages are still returned.
// Any other failure returns ErrFetch and no issues.
func (c *Client) Issues(ctx context.Context, pageSize, page int, status Status) ([]Issue, error) {
	if status == "" {
		status = StatusOpen
	}
	params := searchParams{PageSize: pageSize, Page: page, Status: status}
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	var issues []Issue
	for {
		resp, err := c.search(ctx, params)
		if err != nil {
			c.logger.Error().Err(err).
				Str("project", c.project.Key).
				Int("page", params.Page).
				Msg("search issues")
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		if resp == nil {
			break
		}
		issues = append(issues, resp.Issues...)
		if params.PageSize*params.Page >= resp.total() {
			break
		}
		params.Page++
	}
	return issues, nil
}

// AllIssues is shorthand for Issues(ctx, DefaultPageSize, 1, status).
func (c *Client) AllIssues(ctx context.Context, status Status) ([]Issue, error) {
	return c.Issues(ctx, DefaultPageSize, 1, status)
}

// search requests a single page.
// It returns a nil response without error if the server
// answered with a non-OK status or an empty body.
func (c *Client) search(ctx context.Context, params searchParams) (*searchResponse, error) {
	q := make(url.Values)
	q.Set("componentKeys", c.project.Key)
	q.Set("statuses", string(params.Status))
	q.Set("ps", strconv.Itoa(params.PageSize))
	q.Set("p", strconv.Itoa(params.Page))
	u := c.host + "/api/issues/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Accept", "application/json")
	c.logger.Debug().Str("method", req.Method).Str("url", u).Msg("request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || len(bytes.TrimSpace(body)) == 0 {
		c.logger.Warn().
			Str("url", u).
			Int("status", resp.StatusCode).
			Int("page", params.Page).
			Msg("no issues in response")
		return nil, nil
	}
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return &sr, nil
}
