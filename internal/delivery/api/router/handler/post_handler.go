package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"letsshare/internal/delivery/api/middleware"
	"letsshare/internal/delivery/api/response"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/errors"
	"letsshare/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PostHandlerParams holds dependencies for PostHandler, injected by Fx.
type PostHandlerParams struct {
	fx.In

	PostUC usecase.PostUsecase
	Logger *slog.Logger
}

// PostHandler serves the post feed.
type PostHandler struct {
	postUC usecase.PostUsecase
	logger *slog.Logger
}

// NewPostHandler is the constructor for PostHandler
func NewPostHandler(params PostHandlerParams) *PostHandler {
	return &PostHandler{
		postUC: params.PostUC,
		logger: params.Logger,
	}
}

// PostRequest is the body of POST /posts and PUT /posts/:id.
type PostRequest struct {
	Description string `json:"description" validate:"required,min=1,max=2000"`
}

// ListPosts returns every post, newest first.
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postUC.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}

	return response.OK(c, toPostResponses(posts))
}

// GetPost returns one post.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := postIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.postUC.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, toPostResponse(post))
}

// CreatePost publishes a post as the authenticated user.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	var req PostRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}

	post, err := h.postUC.CreatePost(c.Request().Context(), &usecase.CreatePostInput{
		AuthorID:    userID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return response.Created(c, toPostResponse(post))
}

// UpdatePost edits a post. Only its author may do so.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	id, err := postIDParam(c)
	if err != nil {
		return err
	}

	var req PostRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}

	post, err := h.postUC.UpdatePost(c.Request().Context(), &usecase.UpdatePostInput{
		PostID:      id,
		UserID:      userID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return response.OK(c, toPostResponse(post))
}

// GetPostQRCode returns a PNG QR code linking to the post.
func (h *PostHandler) GetPostQRCode(c echo.Context) error {
	id, err := postIDParam(c)
	if err != nil {
		return err
	}

	png, err := h.postUC.GetPostQRCode(c.Request().Context(), id)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=3600")

	return c.Blob(http.StatusOK, "image/png", png)
}

// postIDParam parses :id. A non-numeric id cannot name a post, so it is reported as not found.
func postIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.WithStack(domainerrors.ErrPostNotFound)
	}

	return id, nil
}
