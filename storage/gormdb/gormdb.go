// Package gormdb implements storage.Storage on top of GORM/MySQL.
package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/storage"
)

const postOrder = "pub_date DESC, id ASC"

// Store wraps a gorm DB handle.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an initialized gorm DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage.ErrConflict
	}
	return err
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, storage.ErrNotFound
	}
	return user, err
}

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	return s.db.WithContext(ctx).Create(group).Error
}

func (s *Store) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Group{}, storage.ErrNotFound
	}
	return group, err
}

func (s *Store) GroupByID(ctx context.Context, id uint) (models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Group{}, storage.ErrNotFound
	}
	return group, err
}

func (s *Store) GroupTitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Group{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// UpdatePost persists text, group and image in place; author and pub_date
// are never rewritten.
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Posts(ctx context.Context, page, size int) ([]models.Post, storage.Page, error) {
	return s.pagedPosts(ctx, s.db.WithContext(ctx).Model(&models.Post{}), page, size)
}

func (s *Store) PostsByGroup(ctx context.Context, groupID uint, page, size int) ([]models.Post, storage.Page, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{}).Where("group_id = ?", groupID)
	return s.pagedPosts(ctx, q, page, size)
}

func (s *Store) PostsByAuthor(ctx context.Context, authorID uint, page, size int) ([]models.Post, storage.Page, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID)
	return s.pagedPosts(ctx, q, page, size)
}

func (s *Store) pagedPosts(ctx context.Context, q *gorm.DB, page, size int) ([]models.Post, storage.Page, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, storage.Page{}, err
	}
	meta := storage.NewPage(page, size, total)

	var posts []models.Post
	err := q.Preload("Author").Preload("Group").
		Order(postOrder).
		Offset(meta.Offset()).Limit(meta.Size).
		Find(&posts).Error
	if err != nil {
		return nil, storage.Page{}, err
	}
	return posts, meta, nil
}

func (s *Store) PostByAuthor(ctx context.Context, username string, postID uint) (models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ? AND users.username = ?", postID, username).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Post{}, storage.ErrNotFound
	}
	return post, err
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error
}

func (s *Store) CommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// RecordPageView upserts the daily counter for a path.
func (s *Store) RecordPageView(ctx context.Context, date time.Time, path string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
	}).Create(&models.PageView{Date: date, Path: path, Count: 1}).Error
}
