package memdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/storage"
)

func seedAuthor(t *testing.T, db *Store, username string) models.User {
	t.Helper()
	user := models.User{Username: username}
	require.NoError(t, db.CreateUser(context.Background(), &user))
	return user
}

func seedGroup(t *testing.T, db *Store, title, slug string) models.Group {
	t.Helper()
	group := models.Group{Title: title, Slug: slug}
	require.NoError(t, db.CreateGroup(context.Background(), &group))
	return group
}

func TestIDsAutoIncrementPerTable(t *testing.T) {
	db := New()
	ctx := context.Background()

	user := seedAuthor(t, db, "IvanovI")
	group := seedGroup(t, db, "Тест-название", "test_slug")
	post := models.Post{Text: "first", AuthorID: user.ID, GroupID: &group.ID}
	require.NoError(t, db.CreatePost(ctx, &post))
	comment := models.Comment{PostID: post.ID, AuthorID: user.ID, Text: "first"}
	require.NoError(t, db.CreateComment(ctx, &comment))

	// Each table starts at 1 like MySQL auto-increment.
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, uint(1), group.ID)
	assert.Equal(t, uint(1), post.ID)
	assert.Equal(t, uint(1), comment.ID)

	second := models.Post{Text: "second", AuthorID: user.ID}
	require.NoError(t, db.CreatePost(ctx, &second))
	assert.Equal(t, uint(2), second.ID)
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	db := New()
	ctx := context.Background()
	seedAuthor(t, db, "IvanovI")

	dup := models.User{Username: "IvanovI"}
	assert.ErrorIs(t, db.CreateUser(ctx, &dup), storage.ErrConflict)
}

func TestPostsPagination(t *testing.T) {
	db := New()
	ctx := context.Background()
	author := seedAuthor(t, db, "test_user")
	group := seedGroup(t, db, "Тест-название", "test_slug")

	base := time.Now()
	for i := 0; i < 13; i++ {
		post := models.Post{
			Text:     strings.Repeat("Ж", i+1),
			AuthorID: author.ID,
			GroupID:  &group.ID,
			PubDate:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.CreatePost(ctx, &post))
	}

	first, page, err := db.Posts(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(13), page.TotalItems)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	second, page, err := db.Posts(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, second, 3)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)

	// Items across all pages add up to the persisted count.
	assert.Equal(t, 13, len(first)+len(second))

	// Out-of-range page resolves to the last page.
	clamped, page, err := db.Posts(ctx, 99, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, clamped, 3)
}

func TestPostsOrderedNewestFirst(t *testing.T) {
	db := New()
	ctx := context.Background()
	author := seedAuthor(t, db, "test_user")

	base := time.Now()
	for i := 0; i < 3; i++ {
		post := models.Post{
			Text:     fmt.Sprintf("post %d", i),
			AuthorID: author.ID,
			PubDate:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.CreatePost(ctx, &post))
	}

	posts, _, err := db.Posts(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post 2", posts[0].Text)
	assert.Equal(t, "post 0", posts[2].Text)
}

func TestEqualTimestampsKeepInsertionOrder(t *testing.T) {
	db := New()
	ctx := context.Background()
	author := seedAuthor(t, db, "test_user")

	ts := time.Now()
	for i := 0; i < 3; i++ {
		post := models.Post{Text: fmt.Sprintf("same %d", i), AuthorID: author.ID, PubDate: ts}
		require.NoError(t, db.CreatePost(ctx, &post))
	}

	posts, _, err := db.Posts(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "same 0", posts[0].Text)
	assert.Equal(t, "same 1", posts[1].Text)
	assert.Equal(t, "same 2", posts[2].Text)
}

func TestFilters(t *testing.T) {
	db := New()
	ctx := context.Background()
	ivan := seedAuthor(t, db, "IvanovI")
	petr := seedAuthor(t, db, "PetrovP")
	group := seedGroup(t, db, "Тест-название", "test_slug")

	grouped := models.Post{Text: "grouped", AuthorID: ivan.ID, GroupID: &group.ID}
	require.NoError(t, db.CreatePost(ctx, &grouped))
	free := models.Post{Text: "free", AuthorID: petr.ID}
	require.NoError(t, db.CreatePost(ctx, &free))

	byGroup, _, err := db.PostsByGroup(ctx, group.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, "grouped", byGroup[0].Text)
	require.NotNil(t, byGroup[0].Group)
	assert.Equal(t, "Тест-название", byGroup[0].Group.Title)
	assert.Equal(t, "IvanovI", byGroup[0].Author.Username)

	byAuthor, _, err := db.PostsByAuthor(ctx, petr.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "free", byAuthor[0].Text)

	count, err := db.CountPostsByAuthor(ctx, ivan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostByAuthorRequiresMatchingPair(t *testing.T) {
	db := New()
	ctx := context.Background()
	ivan := seedAuthor(t, db, "IvanovI")
	seedAuthor(t, db, "PetrovP")

	post := models.Post{Text: "mine", AuthorID: ivan.ID}
	require.NoError(t, db.CreatePost(ctx, &post))

	got, err := db.PostByAuthor(ctx, "IvanovI", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Text)

	_, err = db.PostByAuthor(ctx, "PetrovP", post.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = db.PostByAuthor(ctx, "IvanovI", 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdatePostPreservesAuthorAndDate(t *testing.T) {
	db := New()
	ctx := context.Background()
	ivan := seedAuthor(t, db, "IvanovI")
	group := seedGroup(t, db, "Тест-название", "test_slug")

	post := models.Post{Text: "before", AuthorID: ivan.ID}
	require.NoError(t, db.CreatePost(ctx, &post))
	pubDate := post.PubDate

	post.Text = "after"
	post.GroupID = &group.ID
	require.NoError(t, db.UpdatePost(ctx, &post))

	got, ok := db.PostByID(post.ID)
	require.True(t, ok)
	assert.Equal(t, "after", got.Text)
	assert.Equal(t, ivan.ID, got.AuthorID)
	assert.True(t, got.PubDate.Equal(pubDate))
	require.NotNil(t, got.GroupID)

	missing := models.Post{ID: 999, Text: "nope"}
	assert.ErrorIs(t, db.UpdatePost(ctx, &missing), storage.ErrNotFound)
}

func TestGroupLookups(t *testing.T) {
	db := New()
	ctx := context.Background()
	group := seedGroup(t, db, "Тест-название", "test_slug")

	bySlug, err := db.GroupBySlug(ctx, "test_slug")
	require.NoError(t, err)
	assert.Equal(t, group.ID, bySlug.ID)

	_, err = db.GroupBySlug(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	exists, err := db.GroupTitleExists(ctx, "Тест-название")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.GroupTitleExists(ctx, "Другая")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommentsByPost(t *testing.T) {
	db := New()
	ctx := context.Background()
	ivan := seedAuthor(t, db, "IvanovI")
	post := models.Post{Text: "mine", AuthorID: ivan.ID}
	require.NoError(t, db.CreatePost(ctx, &post))

	comment := models.Comment{PostID: post.ID, AuthorID: ivan.ID, Text: "hello"}
	require.NoError(t, db.CreateComment(ctx, &comment))
	assert.False(t, comment.Created.IsZero())

	comments, err := db.CommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Text)
	assert.Equal(t, "IvanovI", comments[0].Author.Username)
}
