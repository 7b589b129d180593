package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	deliverycontext "letsshare/internal/delivery/context"
	"letsshare/internal/domain/entity"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/domain/repository"
	"letsshare/internal/domain/service"
	"letsshare/internal/errors"
	"letsshare/internal/usecase"

	"go.uber.org/fx"
)

const maxDescriptionLength = 2000

// postService implements the PostUsecase interface.
type postService struct {
	txManager repository.TransactionManager
	postRepo  repository.PostRepository
	qrCode    service.QRCodeService
	events    *eventEmitter
	logger    *slog.Logger
}

// PostServiceParams holds dependencies for PostService, injected by Fx.
type PostServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PostRepo  repository.PostRepository
	QRCode    service.QRCodeService
	Publisher service.EventPublisher `optional:"true"`
	Logger    *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		txManager: params.TxManager,
		postRepo:  params.PostRepo,
		qrCode:    params.QRCode,
		events:    newEventEmitter(params.Publisher, params.Logger),
		logger:    params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListPosts returns the public feed, newest first.
func (srv *postService) ListPosts(ctx context.Context) ([]*entity.Post, error) {
	posts, err := srv.postRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	return posts, nil
}

// GetPost returns a single post with its author.
func (srv *postService) GetPost(ctx context.Context, id int64) (*entity.Post, error) {
	post, err := srv.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapPostLookupError(err)
	}

	return post, nil
}

// CreatePost publishes a post on behalf of an authenticated author.
func (srv *postService) CreatePost(ctx context.Context, input *usecase.CreatePostInput) (*entity.Post, error) {
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		Description: description,
		AuthorID:    input.AuthorID,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		author, err := repoFactory.UserRepo().FindByID(ctx, input.AuthorID)
		if err != nil {
			return errors.Translate(err, repository.ErrUserNotFound, domainerrors.ErrUserNotFound, "failed to find post author")
		}

		if err := repoFactory.PostRepo().Create(ctx, post); err != nil {
			return errors.Wrap(err, "failed to create post")
		}
		post.Author = author.Summary()

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute create post transaction", slog.Int64("authorID", input.AuthorID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute create post transaction")
	}

	srv.events.emit(ctx, service.EventPostCreated, post.AuthorID, post.ID)
	srv.log(ctx).Debug("Post created", slog.Int64("postID", post.ID), slog.Int64("authorID", post.AuthorID))

	return post, nil
}

// UpdatePost rewrites a post's description. Only the author may edit it.
func (srv *postService) UpdatePost(ctx context.Context, input *usecase.UpdatePostInput) (*entity.Post, error) {
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	var updated *entity.Post
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		post, err := postRepo.FindByID(ctx, input.PostID)
		if err != nil {
			return mapPostLookupError(err)
		}

		if !post.IsAuthoredBy(input.UserID) {
			srv.log(ctx).Warn("Post edit by non-author rejected",
				slog.Int64("postID", input.PostID),
				slog.Int64("userID", input.UserID),
			)

			return errors.WithStack(domainerrors.ErrForbidden)
		}

		post.Description = description
		if err := postRepo.UpdateDescription(ctx, post); err != nil {
			return mapPostLookupError(err)
		}
		updated = post

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute update post transaction")
	}

	return updated, nil
}

// GetPostQRCode renders a PNG QR code that links to the post.
func (srv *postService) GetPostQRCode(ctx context.Context, id int64) ([]byte, error) {
	if _, err := srv.GetPost(ctx, id); err != nil {
		return nil, err
	}

	png, err := srv.qrCode.GeneratePostQR(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate post qr code")
	}

	return png, nil
}

func mapPostLookupError(err error) error {
	return errors.Translate(err, repository.ErrPostNotFound, domainerrors.ErrPostNotFound, "failed to load post")
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("description must not be empty"))
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return "", errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("description must be at most 2000 characters"))
	}

	return description, nil
}
