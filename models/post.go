package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Post is a single authored text entry, optionally grouped and illustrated.
// PubDate is set once at creation and defines the default descending order.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"index;not null" json:"pub_date"`
	AuthorID uint      `gorm:"index;not null" json:"author_id"`
	GroupID  *uint     `gorm:"index" json:"group_id"`
	Image    string    `gorm:"size:512" json:"image"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}

// BeforeCreate stamps PubDate once; edits never touch it.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.PubDate.IsZero() {
		p.PubDate = time.Now()
	}
	return nil
}

// String renders the admin-style display line: author, group, date and the
// first 15 runes of the text.
func (p Post) String() string {
	group := ""
	if p.Group != nil {
		group = p.Group.Title
	}
	return fmt.Sprintf("author: %s, group: %s, date: %s, text:%s.",
		p.Author.Username, group, p.PubDate.Format("2006-01-02 15:04"), truncateRunes(p.Text, 15))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
