package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostStringTruncatesToFifteenRunes(t *testing.T) {
	group := Group{Title: "Тест-название", Slug: "test_slug"}
	post := Post{
		Text:    strings.Repeat("Ж", 50),
		PubDate: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		Author:  User{Username: "IvanovI"},
		Group:   &group,
	}

	got := post.String()
	assert.Equal(t, "author: IvanovI, group: Тест-название, date: 2026-08-01 12:30, text:"+strings.Repeat("Ж", 15)+".", got)
}

func TestPostStringWithoutGroup(t *testing.T) {
	post := Post{
		Text:    "short",
		PubDate: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		Author:  User{Username: "PetrovP"},
	}
	got := post.String()
	assert.Contains(t, got, "author: PetrovP, group: ,")
	assert.Contains(t, got, "text:short.")
}

func TestGroupStringIsTitle(t *testing.T) {
	assert.Equal(t, "Тест-название", Group{Title: "Тест-название"}.String())
}
