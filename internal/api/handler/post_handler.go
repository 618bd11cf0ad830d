package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// sortFields maps the API's camelCase sort keys to repository field names.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

func toPostResponse(d *ports.PostDetail) postResponse {
	resp := postResponse{
		ID:        d.Post.ID,
		Title:     d.Post.Title,
		Content:   d.Post.Content,
		CreatedAt: d.Post.CreatedAt,
		UpdatedAt: d.Post.UpdatedAt,
	}
	resp.Author.ID = d.Post.AuthorID
	if d.Author != nil {
		resp.Author.Username = d.Author.Username
		resp.Author.FirstName = d.Author.FirstName
		resp.Author.LastName = d.Author.LastName
	}
	return resp
}

// Create creates a post authored by the current identity.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  baseResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.service.CreatePost(c.Request().Context(), actor, ports.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, baseResponse{
		Success: true,
		Message: "post created",
		Data:    toPostResponse(detail),
	})
}

// Get returns a single post by id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  baseResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetPost(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, baseResponse{
		Success: true,
		Message: "post retrieved",
		Data:    toPostResponse(detail),
	})
}

// List returns a page of posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page       query  int     false  "Page number (0-based)"
// @Param        size       query  int     false  "Page size"
// @Param        sortBy     query  string  false  "Sort field: createdAt, updatedAt, title"
// @Param        direction  query  string  false  "asc or desc"
// @Param        my-posts   query  bool    false  "Only posts by the current user"
// @Success      200  {object}  baseResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	myPosts, _ := strconv.ParseBool(c.QueryParam("my-posts"))

	sortBy, ok := sortFields[c.QueryParam("sortBy")]
	if !ok {
		sortBy = "created_at"
	}

	result, err := h.service.ListPosts(c.Request().Context(), actor, ports.ListPostsFilter{
		SortBy:    sortBy,
		Ascending: c.QueryParam("direction") == "asc",
		Page:      page,
		Size:      size,
	}, myPosts)
	if err != nil {
		return err
	}

	posts := make([]postResponse, 0, len(result.Posts))
	for _, d := range result.Posts {
		posts = append(posts, toPostResponse(d))
	}

	return c.JSON(http.StatusOK, baseResponse{
		Success: true,
		Message: "posts retrieved",
		Data: paginatedPostsResponse{
			Posts:         posts,
			CurrentPage:   result.CurrentPage,
			TotalPages:    result.TotalPages,
			TotalElements: result.TotalElements,
			HasNext:       result.HasNext,
			HasPrevious:   result.HasPrevious,
		},
	})
}

// Update edits a post. Only the author may update it.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "New post content"
// @Success      200   {object}  baseResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.service.UpdatePost(c.Request().Context(), actor, c.Param("id"), ports.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, baseResponse{
		Success: true,
		Message: "post updated",
		Data:    toPostResponse(detail),
	})
}

// Delete removes a post. Only the author may delete it.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  baseResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, baseResponse{
		Success: true,
		Message: "post deleted",
	})
}
