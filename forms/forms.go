// Package forms holds the declarative input validators for posts, comments
// and groups. Validators are pure: persistence checks are injected as
// lookup functions and results never touch the database.
package forms

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/storage"
	"github.com/GenVas/yatube/utils"
)

const (
	maxTitleLen       = 200
	maxSlugLen        = 10
	maxDescriptionLen = 200
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// FieldErrors maps a field name to its first validation error message.
type FieldErrors map[string]string

// Add records the first error for a field; later ones are ignored.
func (e FieldErrors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// GroupLookup resolves a submitted group id against existing groups.
type GroupLookup func(ctx context.Context, id uint) (models.Group, error)

// TitleExists reports whether a group with the given title already exists.
type TitleExists func(ctx context.Context, title string) (bool, error)

// PostForm carries raw submitted values for the new-post and edit flows.
type PostForm struct {
	Text    string
	GroupID string
}

// PostFields is the validated shape ready to persist.
type PostFields struct {
	Text    string
	GroupID *uint
	Group   *models.Group
}

// Validate checks the post form. The group id, when present, must reference
// an existing group; text is required after trimming.
func (f PostForm) Validate(ctx context.Context, lookup GroupLookup) (PostFields, FieldErrors) {
	errs := FieldErrors{}
	fields := PostFields{}

	text := strings.TrimSpace(f.Text)
	if text == "" {
		errs.Add("text", "This field is required.")
	} else {
		fields.Text = utils.Sanitize(text)
	}

	if raw := strings.TrimSpace(f.GroupID); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			errs.Add("group", "Select a valid group.")
		} else {
			group, err := lookup(ctx, uint(id))
			switch {
			case errors.Is(err, storage.ErrNotFound):
				errs.Add("group", "Select a valid group.")
			case err != nil:
				errs.Add("group", "Unable to verify the group right now.")
			default:
				gid := group.ID
				fields.GroupID = &gid
				fields.Group = &group
			}
		}
	}

	return fields, errs
}

// CommentForm carries the raw submitted comment text.
type CommentForm struct {
	Text string
}

// CommentFields is the validated comment shape.
type CommentFields struct {
	Text string
}

// Validate requires non-empty comment text.
func (f CommentForm) Validate() (CommentFields, FieldErrors) {
	errs := FieldErrors{}
	text := strings.TrimSpace(f.Text)
	if text == "" {
		errs.Add("text", "This field is required.")
		return CommentFields{}, errs
	}
	return CommentFields{Text: utils.Sanitize(text)}, errs
}

// GroupForm carries raw submitted values for group creation.
type GroupForm struct {
	Title       string
	Slug        string
	Description string
}

// GroupFields is the validated group shape.
type GroupFields struct {
	Title       string
	Slug        string
	Description string
}

// Validate enforces length limits, the slug charset and uniqueness of the
// title. Uniqueness is a form-level rule, surfaced as a field error rather
// than a persistence conflict.
func (f GroupForm) Validate(ctx context.Context, exists TitleExists) (GroupFields, FieldErrors) {
	errs := FieldErrors{}

	title := strings.TrimSpace(f.Title)
	switch {
	case title == "":
		errs.Add("title", "This field is required.")
	case utf8.RuneCountInString(title) > maxTitleLen:
		errs.Add("title", fmt.Sprintf("Ensure this value has at most %d characters.", maxTitleLen))
	default:
		taken, err := exists(ctx, title)
		if err != nil {
			errs.Add("title", "Unable to verify the title right now.")
		} else if taken {
			errs.Add("title", fmt.Sprintf("%s already exists.", title))
		}
	}

	slug := strings.TrimSpace(f.Slug)
	switch {
	case slug == "":
		errs.Add("slug", "This field is required.")
	case utf8.RuneCountInString(slug) > maxSlugLen:
		errs.Add("slug", fmt.Sprintf("Ensure this value has at most %d characters.", maxSlugLen))
	case !slugPattern.MatchString(slug):
		errs.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}

	description := strings.TrimSpace(f.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		errs.Add("description", fmt.Sprintf("Ensure this value has at most %d characters.", maxDescriptionLen))
	}

	return GroupFields{Title: title, Slug: slug, Description: description}, errs
}
