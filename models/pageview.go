package models

import "time"

// PageView aggregates daily view counts per path.
type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;uniqueIndex:idx_date_path" json:"date"`
	Path      string    `gorm:"size:255;uniqueIndex:idx_date_path" json:"path"`
	Count     int64     `gorm:"default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
