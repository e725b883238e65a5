package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply attached to a post. Created is set once at creation.
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"index;not null" json:"post_id"`
	AuthorID uint      `gorm:"index;not null" json:"author_id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"not null" json:"created"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// BeforeCreate stamps Created once.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.Created.IsZero() {
		c.Created = time.Now()
	}
	return nil
}
