package postgres

import (
	"context"
	"time"

	"letsshare/internal/domain/entity"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/domain/repository"
	"letsshare/internal/errors"
	"letsshare/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// postRepository implements repository.PostRepository using GORM.
type postRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db, now: time.Now}
}

// List returns all posts, newest first, with their authors preloaded.
func (repo *postRepository) List(ctx context.Context) ([]*entity.Post, error) {
	var postsM []*model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Find(&postsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	posts := make([]*entity.Post, 0, len(postsM))
	for _, postM := range postsM {
		posts = append(posts, toPostDomain(postM))
	}

	return posts, nil
}

// FindByID retrieves a single post with its author.
func (repo *postRepository) FindByID(ctx context.Context, id int64) (*entity.Post, error) {
	var postM model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&postM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find post by id")
	}

	return toPostDomain(&postM), nil
}

// Create persists a new post. Author is not written; only AuthorID is.
func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postM := &model.PostModel{
		Description: post.Description,
		AuthorID:    post.AuthorID,
	}

	if err := repo.db.WithContext(ctx).Omit("Author").Create(postM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("post author does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create post")
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt

	return nil
}

// UpdateDescription rewrites the description of an existing post.
func (repo *postRepository) UpdateDescription(ctx context.Context, post *entity.Post) error {
	updatedAt := repo.now()

	result := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"description": post.Description,
			"updated_at":  updatedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	post.UpdatedAt = updatedAt

	return nil
}

func toPostDomain(data *model.PostModel) *entity.Post {
	if data == nil {
		return nil
	}

	post := &entity.Post{
		ID:          data.ID,
		Description: data.Description,
		AuthorID:    data.AuthorID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
	if data.Author != nil {
		post.Author = toUserDomain(data.Author).Summary()
	}

	return post
}
