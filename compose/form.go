// Package compose validates the create-post form and turns it into an API request.
package compose

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cppla/webblog/models"
)

var readableTitle = regexp.MustCompile(`^[A-Za-z0-9 ].+$`)

// Field errors shown under the inputs.
const (
	MsgTitleRequired   = "Title is required"
	MsgTitleUnreadable = "Title must contain readable characters"
	MsgContentRequired = "Content is required"
	MsgRestricted      = "Your account is temporarily restricted"
)

// Errors maps field name to message. Empty means valid.
type Errors map[string]string

// ValidateTitle returns the title's error message, "" when valid.
func ValidateTitle(title string) string {
	t := strings.TrimSpace(title)
	switch {
	case t == "":
		return MsgTitleRequired
	case !readableTitle.MatchString(t):
		return MsgTitleUnreadable
	}
	return ""
}

func ValidateContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return MsgContentRequired
	}
	return ""
}

// Validate checks every field of d.
func Validate(d models.Draft) Errors {
	errs := Errors{}
	if msg := ValidateTitle(d.Title); msg != "" {
		errs["title"] = msg
	}
	if msg := ValidateContent(d.Content); msg != "" {
		errs["content"] = msg
	}
	return errs
}

// Submit is the state of the submit button.
type Submit struct {
	Disabled bool   `json:"disabled"`
	Tooltip  string `json:"tooltip,omitempty"`
}

// SubmitState disables submission while title or content is blank, or while the author
// is blocked in this browser.
func SubmitState(d models.Draft, blocked bool) Submit {
	if blocked {
		return Submit{Disabled: true, Tooltip: MsgRestricted}
	}
	return Submit{Disabled: strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == ""}
}

// Input builds the create request: trimmed fields, and the selected category if any.
func Input(d models.Draft) models.PostInput {
	in := models.PostInput{Title: strings.TrimSpace(d.Title), Content: strings.TrimSpace(d.Content)}
	if id, err := strconv.ParseInt(strings.TrimSpace(d.Category), 10, 64); err == nil && id > 0 {
		in.CategoryIDs = []int64{id}
	}
	return in
}
