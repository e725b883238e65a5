package models

// Group is a named topic bucket for posts. The slug is the unique URL key.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:10;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:200" json:"description"`
	Posts       []Post `json:"-"`
}

func (g Group) String() string {
	return g.Title
}
