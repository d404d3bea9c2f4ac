// Package models defines data structures shared across the application.
package models

import (
	"fmt"
	"time"
)

// Badge is the display record produced for every badge request. It is the
// sole output contract of the rendering stage; badge-image generation
// consumes it unmodified.
type Badge struct {
	// Label is the left-hand side of the badge (e.g. "issue 42")
	Label string `json:"label"`

	// Message is the right-hand side of the badge (e.g. "open")
	Message string `json:"message"`

	// Color is the message background color, empty when the renderer
	// declines to pick one
	Color string `json:"color,omitempty"`

	// Link is an optional target the badge points at
	Link string `json:"link,omitempty"`
}

// IssueKind selects which upstream endpoint a resource is fetched from.
type IssueKind string

const (
	KindIssues IssueKind = "issues"
	KindPulls  IssueKind = "pulls"
)

// ParseIssueKind validates a path segment against the two supported kinds.
func ParseIssueKind(s string) (IssueKind, error) {
	switch IssueKind(s) {
	case KindIssues, KindPulls:
		return IssueKind(s), nil
	}
	return "", fmt.Errorf("unknown issue kind: %q", s)
}

// Property is one of the supported badge facets. The set is closed: every
// value past ParseProperty is one of the constants below, which lets the
// transform/render dispatch switch exhaustively.
type Property string

const (
	PropertyState      Property = "state"
	PropertyMilestone  Property = "milestone"
	PropertyTitle      Property = "title"
	PropertyAuthor     Property = "author"
	PropertyLabel      Property = "label"
	PropertyComments   Property = "comments"
	PropertyAge        Property = "age"
	PropertyLastUpdate Property = "last-update"
)

// ParseProperty validates a path segment against the supported properties.
func ParseProperty(s string) (Property, error) {
	switch Property(s) {
	case PropertyState, PropertyMilestone, PropertyTitle, PropertyAuthor,
		PropertyLabel, PropertyComments, PropertyAge, PropertyLastUpdate:
		return Property(s), nil
	}
	return "", fmt.Errorf("unknown property: %q", s)
}

// User is the subset of the GitHub user object the badges read.
type User struct {
	Login string `json:"login"`
}

// Label is one repository label attached to an issue.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Milestone is the subset of the GitHub milestone object the badges read.
// The upstream field is nullable.
type Milestone struct {
	Title string `json:"title"`
	State string `json:"state"`
}

// PullRequestMeta is present on issue payloads that are really pull
// requests. Its presence alone marks the resource as a PR.
type PullRequestMeta struct {
	MergedAt *time.Time `json:"merged_at"`
}

// IssueDetails is the typed view of a single issue or pull request payload.
// Both the issues and the pulls endpoints decode into it: the pulls payload
// carries MergedAt at the top level, the issues payload nests it under
// pull_request.
type IssueDetails struct {
	Number      int              `json:"number"`
	State       string           `json:"state"`
	Title       string           `json:"title"`
	User        *User            `json:"user"`
	Labels      []Label          `json:"labels"`
	Milestone   *Milestone       `json:"milestone"`
	Comments    int              `json:"comments"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	MergedAt    *time.Time       `json:"merged_at"`
	PullRequest *PullRequestMeta `json:"pull_request"`
}

// IsPullRequest reports whether the resource is a pull request: either it
// was fetched from the pulls endpoint, or the issue payload carries a
// pull_request marker.
func (d *IssueDetails) IsPullRequest(kind IssueKind) bool {
	return kind == KindPulls || d.PullRequest != nil
}

// Merged reports whether the pull request has been merged, reading the
// merge timestamp from whichever endpoint shape supplied it.
func (d *IssueDetails) Merged() bool {
	if d.MergedAt != nil {
		return true
	}
	return d.PullRequest != nil && d.PullRequest.MergedAt != nil
}
