// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"

	"github.com/badgeworks/issuebadge/internal/config"
	"github.com/badgeworks/issuebadge/internal/logging"
	"github.com/badgeworks/issuebadge/pkg/models"
)

// ErrNotFound classifies every fetch failure the badge surfaces as "not
// found": a missing upstream resource and a payload that does not satisfy
// the requested property's schema both land here.
var ErrNotFound = errors.New("issue not found")

// Client encapsulates the GitHub API client.
type Client struct {
	client *github.Client
}

// NewClient creates a new GitHub API client from configuration. A token, if
// configured, authenticates requests via oauth2; without one the client runs
// against the unauthenticated rate limit. The API base URL follows the
// configured domain (github.com or an Enterprise install) unless an explicit
// APIURL override is set.
func NewClient(cfg *config.Config) (*Client, error) {
	domain := cfg.GitHub.Domain
	if domain == "" {
		domain = "github.com"
	}

	apiURL := cfg.GitHub.APIURL
	if apiURL == "" {
		if domain == "github.com" {
			apiURL = "https://api.github.com/"
		} else {
			apiURL = fmt.Sprintf("https://%s/api/v3/", domain)
		}
	}
	// go-github requires the base URL to end with a slash.
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}

	logging.Info("github configuration",
		"domain", domain,
		"api_url", apiURL,
		"token", logging.MaskSensitive(cfg.GitHub.Token))

	httpClient := http.DefaultClient
	if cfg.GitHub.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.GitHub.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)

	parsedURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github api url: %w", err)
	}
	client.BaseURL = parsedURL
	client.UploadURL = parsedURL

	return &Client{client: client}, nil
}

// IssueDetails fetches a single issue or pull request and checks the payload
// against the schema of the property that will be rendered. Missing
// resources and schema violations both surface as ErrNotFound.
func (c *Client) IssueDetails(ctx context.Context, kind models.IssueKind, owner, repo string, number int, property models.Property) (*models.IssueDetails, error) {
	path := fmt.Sprintf("repos/%s/%s/%s/%d", owner, repo, kind, number)

	req, err := c.client.NewRequest("GET", path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	details := &models.IssueDetails{}
	resp, err := c.client.Do(ctx, req, details)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			logging.Debug("upstream resource missing", "path", path)
			return nil, fmt.Errorf("%w: %s/%s#%d", ErrNotFound, owner, repo, number)
		}
		logging.Error("failed to fetch issue details", "path", path, "error", err)
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if err := validateForProperty(details, property); err != nil {
		logging.Debug("payload failed schema check", "path", path, "property", property, "error", err)
		return nil, err
	}

	return details, nil
}

// validateForProperty checks that the fields the property's transform reads
// are present in the decoded payload. A violation is a "not found"-class
// error: the resource as fetched cannot produce the requested badge.
func validateForProperty(d *models.IssueDetails, property models.Property) error {
	notFound := func(field string) error {
		return fmt.Errorf("%w: payload missing %s", ErrNotFound, field)
	}

	switch property {
	case models.PropertyState, models.PropertyMilestone:
		if d.State == "" {
			return notFound("state")
		}
	case models.PropertyTitle:
		if d.Title == "" {
			return notFound("title")
		}
	case models.PropertyAuthor:
		if d.User == nil || d.User.Login == "" {
			return notFound("user.login")
		}
	case models.PropertyLabel:
		if d.Labels == nil {
			return notFound("labels")
		}
	case models.PropertyComments:
		if d.Comments < 0 {
			return notFound("comments")
		}
	case models.PropertyAge:
		if d.CreatedAt.IsZero() {
			return notFound("created_at")
		}
	case models.PropertyLastUpdate:
		if d.UpdatedAt.IsZero() {
			return notFound("updated_at")
		}
	}

	return nil
}
