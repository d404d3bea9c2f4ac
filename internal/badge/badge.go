// Package badge turns fetched issue details into badge display records.
//
// Each property carries its own transform (payload -> value) and render
// (value -> badge) behavior. The dispatch switches exhaustively over the
// closed models.Property enumeration, so an unsupported property cannot
// reach this package past models.ParseProperty.
package badge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badgeworks/issuebadge/pkg/models"
)

// ErrNoLabels is returned when a label badge is requested for an issue
// that has no labels attached.
var ErrNoLabels = errors.New("no labels found")

// now is stubbed in tests so age colors are deterministic.
var now = time.Now

// Value is a transformed, badge-ready view of an issue payload. The set of
// implementations is closed and mirrors the property enumeration.
type Value interface {
	badgeValue()
}

// StateValue backs the state property.
type StateValue struct {
	State  string
	Merged bool
}

// MilestoneValue backs the milestone property.
type MilestoneValue struct {
	State     string
	Merged    bool
	Milestone string
}

// TitleValue backs the title property.
type TitleValue string

// AuthorValue backs the author property.
type AuthorValue string

// LabelValue backs the label property.
type LabelValue struct {
	Names  []string
	Colors []string
}

// CommentsValue backs the comments property.
type CommentsValue int

// TimestampValue backs both the age and last-update properties; which
// timestamp it holds is decided at transform time.
type TimestampValue time.Time

func (StateValue) badgeValue()     {}
func (MilestoneValue) badgeValue() {}
func (TitleValue) badgeValue()     {}
func (AuthorValue) badgeValue()    {}
func (LabelValue) badgeValue()     {}
func (CommentsValue) badgeValue()  {}
func (TimestampValue) badgeValue() {}

// Transform extracts the property-specific value from a fetched payload.
// It is pure: no I/O, no clock.
func Transform(d *models.IssueDetails, property models.Property) (Value, error) {
	switch property {
	case models.PropertyState:
		return StateValue{State: d.State, Merged: d.Merged()}, nil

	case models.PropertyMilestone:
		milestone := "No Milestone"
		if d.Milestone != nil && d.Milestone.Title != "" {
			milestone = d.Milestone.Title
		}
		return MilestoneValue{State: d.State, Merged: d.Merged(), Milestone: milestone}, nil

	case models.PropertyTitle:
		return TitleValue(d.Title), nil

	case models.PropertyAuthor:
		return AuthorValue(d.User.Login), nil

	case models.PropertyLabel:
		if len(d.Labels) == 0 {
			return nil, ErrNoLabels
		}
		names := make([]string, len(d.Labels))
		colors := make([]string, len(d.Labels))
		for i, label := range d.Labels {
			names[i] = label.Name
			colors[i] = label.Color
		}
		return LabelValue{Names: names, Colors: colors}, nil

	case models.PropertyComments:
		return CommentsValue(d.Comments), nil

	case models.PropertyAge:
		return TimestampValue(d.CreatedAt), nil

	case models.PropertyLastUpdate:
		return TimestampValue(d.UpdatedAt), nil
	}

	return nil, fmt.Errorf("no descriptor for property %q", property)
}

// Render formats a transformed value into the badge display record. Apart
// from the elapsed-time color on age/last-update badges it is a pure
// function of its arguments.
func Render(v Value, property models.Property, isPR bool, number int, owner, repo string) (models.Badge, error) {
	switch property {
	case models.PropertyState:
		sv, ok := v.(StateValue)
		if !ok {
			return models.Badge{}, valueMismatch(property, v)
		}
		return renderState(sv, isPR, number), nil

	case models.PropertyMilestone:
		mv, ok := v.(MilestoneValue)
		if !ok {
			return models.Badge{}, valueMismatch(property, v)
		}
		return renderMilestone(mv, isPR, number, owner, repo), nil

	case models.PropertyTitle:
		tv, ok := v.(TitleValue)
		if !ok {
			return models.Badge{}, valueMismatch(property, v)
		}
		return models.Badge{Label: subject(isPR, number), Message: string(tv)}, nil

	case models.PropertyAuthor:
		av, ok := v.(AuthorValue)
		if !ok {
			return models.Badge{}, valueMismatch(property, v)
		}
		return models.Badge{Label: "author", Message: string(av)}, nil

	case models.PropertyLabel:
		lv, ok := v.(LabelValue)
		if !ok {
			return models.Badge{}, valueMismatch(property, v)
		}
		badge := models.Badge{Label: "label", Message: strings.Join(lv.Names, " | ")}
		// Multiple labels leave the color ambiguous; only a single label
		// colors the badge.
		if len(lv.Colors) == 1 {
			badge.Color = lv.Colors[0]
		}
		return badge, nil

	case models.PropertyComments:
		cv, ok := v.(CommentsValue)
		if !ok {
			return models.Badge{}, valueMismatch(property, v)
		}
		return models.Badge{
			Label:   "comments",
			Message: formatCount(int(cv)),
			Color:   commentsColor(int(cv)),
		}, nil

	case models.PropertyAge, models.PropertyLastUpdate:
		ts, ok := v.(TimestampValue)
		if !ok {
			return models.Badge{}, valueMismatch(property, v)
		}
		label := "created"
		if property == models.PropertyLastUpdate {
			label = "updated"
		}
		t := time.Time(ts)
		return models.Badge{
			Label:   label,
			Message: formatDate(t),
			Color:   ageColor(now().Sub(t)),
		}, nil
	}

	return models.Badge{}, fmt.Errorf("no descriptor for property %q", property)
}

func valueMismatch(property models.Property, v Value) error {
	return fmt.Errorf("value %T does not match property %q", v, property)
}

func renderState(sv StateValue, isPR bool, number int) models.Badge {
	badge := models.Badge{Label: subject(isPR, number)}
	switch {
	case !isPR || sv.State == "open":
		badge.Message = sv.State
		badge.Color = stateColor(sv.State)
	case sv.Merged:
		badge.Message = "merged"
		badge.Color = "blueviolet"
	default:
		badge.Message = "rejected"
		badge.Color = "red"
	}
	return badge
}

func renderMilestone(mv MilestoneValue, isPR bool, number int, owner, repo string) models.Badge {
	badge := models.Badge{
		Label: subject(isPR, number),
		Link:  htmlURL(isPR, owner, repo, number),
	}
	switch {
	case !isPR || mv.State == "open":
		// Upcased state, unlike the lowercase state badge. The upstream
		// behavior is inconsistent between the two and is kept as-is.
		badge.Message = fmt.Sprintf("%s: %s", strings.ToUpper(mv.State), mv.Milestone)
		badge.Color = stateColor(mv.State)
	case mv.Merged:
		badge.Message = "MERGED"
		badge.Color = "blueviolet"
	default:
		badge.Message = "REJECTED"
		badge.Color = "red"
	}
	return badge
}

// subject is the left-hand badge label identifying the resource.
func subject(isPR bool, number int) string {
	if isPR {
		return fmt.Sprintf("pull request %d", number)
	}
	return fmt.Sprintf("issue %d", number)
}

// htmlURL is the browser-facing page for the resource. Pull requests live
// under /pull/ on the web even though the API path segment is "pulls".
func htmlURL(isPR bool, owner, repo string, number int) string {
	segment := "issues"
	if isPR {
		segment = "pull"
	}
	return fmt.Sprintf("https://github.com/%s/%s/%s/%d", owner, repo, segment, number)
}

func stateColor(state string) string {
	switch state {
	case "open":
		return "brightgreen"
	case "closed":
		return "red"
	}
	return "lightgrey"
}

// formatDate renders a timestamp as a short human date: month and day
// within the current year, month and year otherwise.
func formatDate(t time.Time) string {
	if t.Year() == now().Year() {
		return strings.ToLower(t.Format("January 2"))
	}
	return strings.ToLower(t.Format("January 2006"))
}

// formatCount shortens large counts with a metric suffix (1200 -> "1.2k").
func formatCount(n int) string {
	if n >= 1000 {
		s := fmt.Sprintf("%.1fk", float64(n)/1000)
		return strings.Replace(s, ".0k", "k", 1)
	}
	return fmt.Sprintf("%d", n)
}
