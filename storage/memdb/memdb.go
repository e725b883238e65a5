// Package memdb is an in-memory storage.Storage used by tests.
package memdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/storage"
)

type Store struct {
	mu       sync.Mutex
	users    map[uint]models.User
	groups   map[uint]models.Group
	posts    []models.Post // insertion order, ids never reused
	comments []models.Comment
	views    map[string]int64
	// ids auto-increment per table, matching MySQL
	nextUserID    uint
	nextGroupID   uint
	nextPostID    uint
	nextCommentID uint
}

func New() *Store {
	return &Store{
		users:         make(map[uint]models.User),
		groups:        make(map[uint]models.Group),
		views:         make(map[string]int64),
		nextUserID:    1,
		nextGroupID:   1,
		nextPostID:    1,
		nextCommentID: 1,
	}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return storage.ErrConflict
		}
	}
	user.ID = s.nextUserID
	s.nextUserID++
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group.ID = s.nextGroupID
	s.nextGroupID++
	s.groups[group.ID] = *group
	return nil
}

func (s *Store) Groups(ctx context.Context) ([]models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return models.Group{}, storage.ErrNotFound
}

func (s *Store) GroupByID(ctx context.Context, id uint) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return models.Group{}, storage.ErrNotFound
	}
	return g, nil
}

func (s *Store) GroupTitleExists(ctx context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = s.nextPostID
	s.nextPostID++
	if post.PubDate.IsZero() {
		post.PubDate = time.Now()
	}
	s.hydrate(post)
	s.posts = append(s.posts, *post)
	return nil
}

func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i].Text = post.Text
			s.posts[i].GroupID = post.GroupID
			s.posts[i].Image = post.Image
			s.hydrate(&s.posts[i])
			return nil
		}
	}
	return storage.ErrNotFound
}

// hydrate fills the Author and Group relations the way gorm preloads do.
func (s *Store) hydrate(post *models.Post) {
	if u, ok := s.users[post.AuthorID]; ok {
		post.Author = u
	}
	post.Group = nil
	if post.GroupID != nil {
		if g, ok := s.groups[*post.GroupID]; ok {
			gc := g
			post.Group = &gc
		}
	}
}

func (s *Store) Posts(ctx context.Context, page, size int) ([]models.Post, storage.Page, error) {
	return s.paged(s.snapshot(func(models.Post) bool { return true }), page, size)
}

func (s *Store) PostsByGroup(ctx context.Context, groupID uint, page, size int) ([]models.Post, storage.Page, error) {
	return s.paged(s.snapshot(func(p models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}), page, size)
}

func (s *Store) PostsByAuthor(ctx context.Context, authorID uint, page, size int) ([]models.Post, storage.Page, error) {
	return s.paged(s.snapshot(func(p models.Post) bool { return p.AuthorID == authorID }), page, size)
}

func (s *Store) snapshot(keep func(models.Post) bool) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for i := range s.posts {
		if keep(s.posts[i]) {
			p := s.posts[i]
			s.hydrate(&p)
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) paged(posts []models.Post, page, size int) ([]models.Post, storage.Page, error) {
	// Newest first; equal timestamps keep insertion order.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PubDate.After(posts[j].PubDate)
	})
	meta := storage.NewPage(page, size, int64(len(posts)))

	start := meta.Offset()
	if start >= len(posts) {
		return []models.Post{}, meta, nil
	}
	end := start + meta.Size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end], meta, nil
}

func (s *Store) PostByAuthor(ctx context.Context, username string, postID uint) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		p := s.posts[i]
		s.hydrate(&p)
		if p.ID == postID && p.Author.Username == username {
			return p, nil
		}
	}
	return models.Post{}, storage.ErrNotFound
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for i := range s.posts {
		if s.posts[i].AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment.ID = s.nextCommentID
	s.nextCommentID++
	if comment.Created.IsZero() {
		comment.Created = time.Now()
	}
	if u, ok := s.users[comment.AuthorID]; ok {
		comment.Author = u
	}
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *Store) CommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for i := range s.comments {
		if s.comments[i].PostID == postID {
			c := s.comments[i]
			if u, ok := s.users[c.AuthorID]; ok {
				c.Author = u
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) RecordPageView(ctx context.Context, date time.Time, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[date.Format("2006-01-02")+" "+path]++
	return nil
}

// PostCount reports the number of stored posts. Test helper.
func (s *Store) PostCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// PostByID returns a stored post by id. Test helper.
func (s *Store) PostByID(id uint) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			p := s.posts[i]
			s.hydrate(&p)
			return p, true
		}
	}
	return models.Post{}, false
}
