package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GenVas/yatube/config"
	"github.com/GenVas/yatube/forms"
	"github.com/GenVas/yatube/middleware"
	"github.com/GenVas/yatube/models"
	"github.com/GenVas/yatube/storage"
	"github.com/GenVas/yatube/utils"
)

// PostController renders the listing, detail, new-post, edit and comment pages.
type PostController struct {
	store storage.Storage
}

// NewPostController creates a PostController over the given storage.
func NewPostController(store storage.Storage) *PostController {
	return &PostController{store: store}
}

// Index renders the paginated listing of all posts.
func (p *PostController) Index(ctx *gin.Context) {
	cfg := config.Get()
	posts, page, err := p.store.Posts(ctx.Request.Context(), parsePage(ctx.Query("page")), cfg.PostsPerPage)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "index.html", withViewer(ctx, gin.H{
		"Posts": posts,
		"Page":  page,
	}))
}

// GroupPosts renders the listing filtered by group slug.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	group, err := p.store.GroupBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		renderLookupError(ctx, err)
		return
	}

	cfg := config.Get()
	posts, page, err := p.store.PostsByGroup(ctx.Request.Context(), group.ID, parsePage(ctx.Query("page")), cfg.PostsPerPage)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "group.html", withViewer(ctx, gin.H{
		"Group": group,
		"Posts": posts,
		"Page":  page,
	}))
}

// Profile renders the listing filtered by author, with the post count.
func (p *PostController) Profile(ctx *gin.Context) {
	author, err := p.store.UserByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		renderLookupError(ctx, err)
		return
	}

	cfg := config.Get()
	posts, page, err := p.store.PostsByAuthor(ctx.Request.Context(), author.ID, parsePage(ctx.Query("page")), cfg.PostsPerProfilePage)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	count, err := p.store.CountPostsByAuthor(ctx.Request.Context(), author.ID)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "profile.html", withViewer(ctx, gin.H{
		"Author":     author,
		"Posts":      posts,
		"Page":       page,
		"PostsCount": count,
	}))
}

// PostView renders a single post with its comments and the comment form.
func (p *PostController) PostView(ctx *gin.Context) {
	post, ok := p.resolvePost(ctx)
	if !ok {
		return
	}
	p.renderDetail(ctx, post, forms.CommentForm{}, nil)
}

// NewPostPage renders the empty new-post form.
func (p *PostController) NewPostPage(ctx *gin.Context) {
	p.renderPostForm(ctx, "Add post", "Add", forms.PostForm{}, nil)
}

// NewPost validates the submission and persists a post authored by the
// session user. The author never comes from submitted data.
func (p *PostController) NewPost(ctx *gin.Context) {
	form := forms.PostForm{
		Text:    ctx.PostForm("text"),
		GroupID: ctx.PostForm("group"),
	}
	fields, errs := form.Validate(ctx.Request.Context(), p.store.GroupByID)
	if len(errs) > 0 {
		p.renderPostForm(ctx, "Add post", "Add", form, errs)
		return
	}

	// Store the upload only once the text and group are known good, so an
	// invalid submission leaves nothing behind on disk.
	imageURL := p.saveImage(ctx, errs)
	if len(errs) > 0 {
		p.renderPostForm(ctx, "Add post", "Add", form, errs)
		return
	}

	userID, _ := middleware.UserID(ctx)
	post := models.Post{
		Text:     fields.Text,
		AuthorID: userID,
		GroupID:  fields.GroupID,
		Image:    imageURL,
	}
	if err := p.store.CreatePost(ctx.Request.Context(), &post); err != nil {
		renderServerError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(middleware.IndexCachePrefix)
	ctx.Redirect(http.StatusFound, "/")
}

// EditPostPage renders the edit form pre-filled with the persisted values.
// Only the author reaches it; everyone else is redirected to the detail page.
func (p *PostController) EditPostPage(ctx *gin.Context) {
	post, state := p.resolveEditable(ctx)
	if state != editable {
		return
	}

	form := forms.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.GroupID = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	p.renderPostForm(ctx, "Edit post", "Save", form, nil)
}

// EditPost persists changes to a post in place, preserving author and
// publication date.
func (p *PostController) EditPost(ctx *gin.Context) {
	post, state := p.resolveEditable(ctx)
	if state != editable {
		return
	}

	form := forms.PostForm{
		Text:    ctx.PostForm("text"),
		GroupID: ctx.PostForm("group"),
	}
	fields, errs := form.Validate(ctx.Request.Context(), p.store.GroupByID)
	if len(errs) > 0 {
		p.renderPostForm(ctx, "Edit post", "Save", form, errs)
		return
	}

	imageURL := p.saveImage(ctx, errs)
	if len(errs) > 0 {
		p.renderPostForm(ctx, "Edit post", "Save", form, errs)
		return
	}

	post.Text = fields.Text
	post.GroupID = fields.GroupID
	if imageURL != "" {
		post.Image = imageURL
	}
	if err := p.store.UpdatePost(ctx.Request.Context(), &post); err != nil {
		renderServerError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(middleware.IndexCachePrefix)
	ctx.Redirect(http.StatusFound, detailURL(ctx.Param("username"), post.ID))
}

// AddComment creates a comment authored by the session user against an
// existing post.
func (p *PostController) AddComment(ctx *gin.Context) {
	post, ok := p.resolvePost(ctx)
	if !ok {
		return
	}

	form := forms.CommentForm{Text: ctx.PostForm("text")}
	fields, errs := form.Validate()
	if len(errs) > 0 {
		p.renderDetail(ctx, post, form, errs)
		return
	}

	userID, _ := middleware.UserID(ctx)
	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Text:     fields.Text,
	}
	if err := p.store.CreateComment(ctx.Request.Context(), &comment); err != nil {
		renderServerError(ctx, err)
		return
	}

	ctx.Redirect(http.StatusFound, detailURL(post.Author.Username, post.ID))
}

type editState int

const (
	editable editState = iota
	forbidden
	missing
)

// resolveEditable implements the edit gate: a path username that is not the
// session user short-circuits to the detail page before any lookup, and an
// unresolvable (username, post id) pair is a 404.
func (p *PostController) resolveEditable(ctx *gin.Context) (models.Post, editState) {
	username := ctx.Param("username")
	postID, err := strconv.ParseUint(ctx.Param("post_id"), 10, 32)
	if err != nil {
		renderNotFound(ctx)
		return models.Post{}, missing
	}

	current, _ := middleware.Username(ctx)
	if username != current {
		ctx.Redirect(http.StatusFound, detailURL(username, uint(postID)))
		return models.Post{}, forbidden
	}

	post, err := p.store.PostByAuthor(ctx.Request.Context(), username, uint(postID))
	if err != nil {
		renderLookupError(ctx, err)
		return models.Post{}, missing
	}
	return post, editable
}

func (p *PostController) resolvePost(ctx *gin.Context) (models.Post, bool) {
	postID, err := strconv.ParseUint(ctx.Param("post_id"), 10, 32)
	if err != nil {
		renderNotFound(ctx)
		return models.Post{}, false
	}
	post, err := p.store.PostByAuthor(ctx.Request.Context(), ctx.Param("username"), uint(postID))
	if err != nil {
		renderLookupError(ctx, err)
		return models.Post{}, false
	}
	return post, true
}

func (p *PostController) renderDetail(ctx *gin.Context, post models.Post, form forms.CommentForm, errs forms.FieldErrors) {
	comments, err := p.store.CommentsByPost(ctx.Request.Context(), post.ID)
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusBadRequest
	}
	ctx.HTML(status, "post.html", withViewer(ctx, gin.H{
		"Post":          post,
		"Author":        post.Author,
		"Comments":      comments,
		"CommentForm":   form,
		"CommentErrors": errs,
	}))
}

func (p *PostController) renderPostForm(ctx *gin.Context, title, submit string, form forms.PostForm, errs forms.FieldErrors) {
	groups, err := p.store.Groups(ctx.Request.Context())
	if err != nil {
		renderServerError(ctx, err)
		return
	}
	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusBadRequest
	}
	ctx.HTML(status, "new.html", withViewer(ctx, gin.H{
		"Title":  title,
		"Submit": submit,
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
	}))
}

// saveImage stores an optional uploaded image and reports a field error on
// payloads that do not decode as images. An absent file is not an error.
func (p *PostController) saveImage(ctx *gin.Context, errs forms.FieldErrors) string {
	header, err := ctx.FormFile("image")
	if err != nil || header == nil {
		return ""
	}
	url, err := utils.SaveImage(header, config.Get().UploadsDir)
	if errors.Is(err, utils.ErrNotImage) {
		errs.Add("image", "Upload a valid image.")
		return ""
	}
	if err != nil {
		errs.Add("image", "Unable to store the image right now.")
		return ""
	}
	return url
}

func detailURL(username string, postID uint) string {
	return "/" + username + "/" + strconv.FormatUint(uint64(postID), 10) + "/"
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func withViewer(ctx *gin.Context, data gin.H) gin.H {
	if name, ok := middleware.Username(ctx); ok {
		data["Viewer"] = name
	}
	return data
}

func renderNotFound(ctx *gin.Context) {
	ctx.HTML(http.StatusNotFound, "404.html", gin.H{"Path": ctx.Request.URL.Path})
}

func renderLookupError(ctx *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		renderNotFound(ctx)
		return
	}
	renderServerError(ctx, err)
}

func renderServerError(ctx *gin.Context, err error) {
	if utils.Sugar != nil {
		utils.Sugar.Errorf("request failed path=%s err=%v", ctx.Request.URL.Path, err)
	}
	ctx.HTML(http.StatusInternalServerError, "500.html", gin.H{})
}
