package forms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/storage"
)

func groupLookup(groups map[uint]models.Group) GroupLookup {
	return func(ctx context.Context, id uint) (models.Group, error) {
		g, ok := groups[id]
		if !ok {
			return models.Group{}, storage.ErrNotFound
		}
		return g, nil
	}
}

func TestPostFormValidate(t *testing.T) {
	lookup := groupLookup(map[uint]models.Group{
		7: {ID: 7, Title: "Тест-название", Slug: "test_slug"},
	})

	tests := []struct {
		name      string
		form      PostForm
		wantField string
	}{
		{name: "empty text", form: PostForm{Text: ""}, wantField: "text"},
		{name: "whitespace only text", form: PostForm{Text: "   \n\t"}, wantField: "text"},
		{name: "unknown group", form: PostForm{Text: "hello", GroupID: "99"}, wantField: "group"},
		{name: "malformed group id", form: PostForm{Text: "hello", GroupID: "seven"}, wantField: "group"},
		{name: "valid without group", form: PostForm{Text: "hello"}},
		{name: "valid with group", form: PostForm{Text: "hello", GroupID: "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, errs := tt.form.Validate(context.Background(), lookup)
			if tt.wantField != "" {
				assert.Contains(t, errs, tt.wantField)
				return
			}
			assert.Empty(t, errs)
			assert.Equal(t, "hello", fields.Text)
			if tt.form.GroupID != "" {
				if assert.NotNil(t, fields.GroupID) {
					assert.Equal(t, uint(7), *fields.GroupID)
				}
			} else {
				assert.Nil(t, fields.GroupID)
			}
		})
	}
}

func TestPostFormSanitizesText(t *testing.T) {
	lookup := groupLookup(nil)
	fields, errs := PostForm{Text: `<script>alert(1)</script>привет`}.Validate(context.Background(), lookup)
	assert.Empty(t, errs)
	assert.Equal(t, "привет", fields.Text)
}

func TestCommentFormValidate(t *testing.T) {
	_, errs := CommentForm{Text: " "}.Validate()
	assert.Contains(t, errs, "text")

	fields, errs := CommentForm{Text: "nice post"}.Validate()
	assert.Empty(t, errs)
	assert.Equal(t, "nice post", fields.Text)
}

func TestGroupFormValidate(t *testing.T) {
	exists := func(ctx context.Context, title string) (bool, error) {
		return title == "Тест-название", nil
	}

	tests := []struct {
		name      string
		form      GroupForm
		wantField string
		wantMsg   string
	}{
		{
			name:      "duplicate title",
			form:      GroupForm{Title: "Тест-название", Slug: "test_slug"},
			wantField: "title",
			wantMsg:   "Тест-название already exists.",
		},
		{name: "missing title", form: GroupForm{Slug: "abc"}, wantField: "title"},
		{name: "missing slug", form: GroupForm{Title: "New group"}, wantField: "slug"},
		{
			name:      "slug too long",
			form:      GroupForm{Title: "New group", Slug: "longer_than_ten"},
			wantField: "slug",
		},
		{
			name:      "slug with bad characters",
			form:      GroupForm{Title: "New group", Slug: "боль"},
			wantField: "slug",
		},
		{
			name:      "title too long",
			form:      GroupForm{Title: strings.Repeat("a", 201), Slug: "ok_slug"},
			wantField: "title",
		},
		{name: "valid", form: GroupForm{Title: "New group", Slug: "new_group", Description: "about"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, errs := tt.form.Validate(context.Background(), exists)
			if tt.wantField != "" {
				assert.Contains(t, errs, tt.wantField)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, errs[tt.wantField])
				}
				return
			}
			assert.Empty(t, errs)
			assert.Equal(t, tt.form.Title, fields.Title)
			assert.Equal(t, tt.form.Slug, fields.Slug)
		})
	}
}

func TestFieldErrorsKeepFirstMessage(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("text", "first")
	errs.Add("text", "second")
	assert.Equal(t, "first", errs["text"])
}
