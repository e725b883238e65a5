package storage

import (
	"context"
	"errors"
	"time"

	"github.com/GenVas/yatube/models"
)

// ErrNotFound signals that a referenced user, group or post does not exist.
var ErrNotFound = errors.New("storage: record not found")

// ErrConflict signals that a unique constraint rejected the write, such as a
// duplicate username racing past the form-level check.
var ErrConflict = errors.New("storage: record already exists")

// Page carries pagination metadata for a bounded slice of a listing.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalItems int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPage computes page metadata for a listing of total items sliced by size.
// The requested number is clamped into the valid range, so an out-of-range
// request resolves to the last page and anything below one to the first.
func NewPage(number, size int, total int64) Page {
	if size < 1 {
		size = 1
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return Page{
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}

// Offset returns the item offset of the page start.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Storage is the data-access boundary between handlers and the database.
// Listings are ordered by publication date descending; posts with equal
// timestamps keep insertion order.
type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByUsername(ctx context.Context, username string) (models.User, error)

	CreateGroup(ctx context.Context, group *models.Group) error
	Groups(ctx context.Context) ([]models.Group, error)
	GroupBySlug(ctx context.Context, slug string) (models.Group, error)
	GroupByID(ctx context.Context, id uint) (models.Group, error)
	GroupTitleExists(ctx context.Context, title string) (bool, error)

	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	Posts(ctx context.Context, page, size int) ([]models.Post, Page, error)
	PostsByGroup(ctx context.Context, groupID uint, page, size int) ([]models.Post, Page, error)
	PostsByAuthor(ctx context.Context, authorID uint, page, size int) ([]models.Post, Page, error)
	PostByAuthor(ctx context.Context, username string, postID uint) (models.Post, error)
	CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error)

	RecordPageView(ctx context.Context, date time.Time, path string) error
}
