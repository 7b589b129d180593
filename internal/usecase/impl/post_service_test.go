package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"letsshare/internal/domain/entity"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/domain/repository"
	"letsshare/internal/domain/service"
	"letsshare/internal/errors"
	mockRepo "letsshare/internal/mocks/repository"
	mockSvc "letsshare/internal/mocks/service"
	"letsshare/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type postServiceFixtures struct {
	service   usecase.PostUsecase
	txManager *mockRepo.MockTransactionManager
	postRepo  *mockRepo.MockPostRepository
	qrCode    *mockSvc.MockQRCodeService
	publisher *mockSvc.MockEventPublisher
}

func createTestPostService(t *testing.T) postServiceFixtures {
	f := postServiceFixtures{
		txManager: mockRepo.NewMockTransactionManager(t),
		postRepo:  mockRepo.NewMockPostRepository(t),
		qrCode:    mockSvc.NewMockQRCodeService(t),
		publisher: mockSvc.NewMockEventPublisher(t),
	}

	f.service = NewPostService(PostServiceParams{
		TxManager: f.txManager,
		PostRepo:  f.postRepo,
		QRCode:    f.qrCode,
		Publisher: f.publisher,
		Logger:    newDiscardLogger(),
	})

	return f
}

func TestPostService_ListPosts(t *testing.T) {
	f := createTestPostService(t)
	ctx := context.Background()
	now := time.Now()
	posts := []*entity.Post{
		{ID: 2, Description: "newer", AuthorID: 1, CreatedAt: now},
		{ID: 1, Description: "older", AuthorID: 1, CreatedAt: now.Add(-time.Hour)},
	}

	f.postRepo.EXPECT().List(ctx).Return(posts, nil)

	got, err := f.service.ListPosts(ctx)

	require.NoError(t, err)
	assert.Equal(t, posts, got)
}

func TestPostService_GetPost(t *testing.T) {
	f := createTestPostService(t)
	ctx := context.Background()

	f.postRepo.EXPECT().FindByID(ctx, int64(1)).Return(&entity.Post{ID: 1}, nil).Once()
	f.postRepo.EXPECT().FindByID(ctx, int64(2)).Return(nil, repository.ErrPostNotFound).Once()

	post, err := f.service.GetPost(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)

	_, err = f.service.GetPost(ctx, 2)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_CreatePost_Success(t *testing.T) {
	f := createTestPostService(t)
	ctx := context.Background()
	author := &entity.User{ID: 7, FullName: "Alice", Email: "a@x.com"}

	expectTx(t, f.txManager, func(factory *mockRepo.MockRepositoryFactory) {
		txUserRepo := mockRepo.NewMockUserRepository(t)
		txPostRepo := mockRepo.NewMockPostRepository(t)
		factory.EXPECT().UserRepo().Return(txUserRepo)
		factory.EXPECT().PostRepo().Return(txPostRepo)

		txUserRepo.EXPECT().FindByID(ctx, int64(7)).Return(author, nil)
		txPostRepo.EXPECT().
			Create(ctx, mock.AnythingOfType("*entity.Post")).
			Run(func(_ context.Context, post *entity.Post) {
				assert.Equal(t, "hello world", post.Description)
				post.ID = 99
			}).
			Return(nil)
	})
	f.publisher.EXPECT().
		Publish(mock.Anything, mock.MatchedBy(func(event *service.Event) bool {
			return event.Type == service.EventPostCreated && event.PostID == 99 && event.UserID == 7
		})).
		Return(nil)

	post, err := f.service.CreatePost(ctx, &usecase.CreatePostInput{AuthorID: 7, Description: "  hello world \n"})

	require.NoError(t, err)
	assert.Equal(t, int64(99), post.ID)
	require.NotNil(t, post.Author)
	assert.Equal(t, "Alice", post.Author.FullName)
}

func TestPostService_CreatePost_InvalidDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
	}{
		{name: "empty", description: ""},
		{name: "whitespace only", description: "   \t"},
		{name: "too long", description: strings.Repeat("x", 2001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestPostService(t)

			_, err := f.service.CreatePost(context.Background(), &usecase.CreatePostInput{AuthorID: 7, Description: tt.description})

			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestPostService_CreatePost_UnknownAuthor(t *testing.T) {
	f := createTestPostService(t)
	ctx := context.Background()

	expectTx(t, f.txManager, func(factory *mockRepo.MockRepositoryFactory) {
		txUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(txUserRepo)
		txUserRepo.EXPECT().FindByID(ctx, int64(7)).Return(nil, repository.ErrUserNotFound)
	})

	_, err := f.service.CreatePost(ctx, &usecase.CreatePostInput{AuthorID: 7, Description: "hello"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Run("author edits the description", func(t *testing.T) {
		f := createTestPostService(t)
		ctx := context.Background()

		expectTx(t, f.txManager, func(factory *mockRepo.MockRepositoryFactory) {
			txPostRepo := mockRepo.NewMockPostRepository(t)
			factory.EXPECT().PostRepo().Return(txPostRepo)

			txPostRepo.EXPECT().FindByID(ctx, int64(3)).Return(&entity.Post{ID: 3, AuthorID: 7, Description: "old"}, nil)
			txPostRepo.EXPECT().
				UpdateDescription(ctx, mock.MatchedBy(func(post *entity.Post) bool {
					return post.ID == 3 && post.Description == "new"
				})).
				Return(nil)
		})

		post, err := f.service.UpdatePost(ctx, &usecase.UpdatePostInput{PostID: 3, UserID: 7, Description: "new"})

		require.NoError(t, err)
		assert.Equal(t, "new", post.Description)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		f := createTestPostService(t)
		ctx := context.Background()

		expectTx(t, f.txManager, func(factory *mockRepo.MockRepositoryFactory) {
			txPostRepo := mockRepo.NewMockPostRepository(t)
			factory.EXPECT().PostRepo().Return(txPostRepo)
			txPostRepo.EXPECT().FindByID(ctx, int64(3)).Return(&entity.Post{ID: 3, AuthorID: 7}, nil)
		})

		_, err := f.service.UpdatePost(ctx, &usecase.UpdatePostInput{PostID: 3, UserID: 8, Description: "new"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		f := createTestPostService(t)
		ctx := context.Background()

		expectTx(t, f.txManager, func(factory *mockRepo.MockRepositoryFactory) {
			txPostRepo := mockRepo.NewMockPostRepository(t)
			factory.EXPECT().PostRepo().Return(txPostRepo)
			txPostRepo.EXPECT().FindByID(ctx, int64(3)).Return(nil, repository.ErrPostNotFound)
		})

		_, err := f.service.UpdatePost(ctx, &usecase.UpdatePostInput{PostID: 3, UserID: 7, Description: "new"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
	})
}

func TestPostService_GetPostQRCode(t *testing.T) {
	t.Run("existing post", func(t *testing.T) {
		f := createTestPostService(t)
		ctx := context.Background()

		f.postRepo.EXPECT().FindByID(ctx, int64(5)).Return(&entity.Post{ID: 5}, nil)
		f.qrCode.EXPECT().GeneratePostQR(int64(5)).Return([]byte("png"), nil)

		png, err := f.service.GetPostQRCode(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, []byte("png"), png)
	})

	t.Run("missing post renders nothing", func(t *testing.T) {
		f := createTestPostService(t)
		ctx := context.Background()

		f.postRepo.EXPECT().FindByID(ctx, int64(5)).Return(nil, repository.ErrPostNotFound)

		_, err := f.service.GetPostQRCode(ctx, 5)

		assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
	})

	t.Run("encoder failure", func(t *testing.T) {
		f := createTestPostService(t)
		ctx := context.Background()

		f.postRepo.EXPECT().FindByID(ctx, int64(5)).Return(&entity.Post{ID: 5}, nil)
		f.qrCode.EXPECT().GeneratePostQR(int64(5)).Return(nil, errors.New("too much data"))

		_, err := f.service.GetPostQRCode(ctx, 5)

		require.Error(t, err)
	})
}
