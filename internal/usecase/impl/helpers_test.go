package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"letsshare/config"
	"letsshare/internal/domain/repository"
	mockRepo "letsshare/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  "test-access-secret",
			Refresh: "test-refresh-secret",
		},
		Auth: &config.AuthConfig{
			SigningAlgorithm: "HS256",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  7 * 24 * time.Hour,
		},
	}
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// expectTx makes txManager run the callback against a factory prepared by setup
// and return whatever the callback returns.
func expectTx(
	t *testing.T,
	txManager *mockRepo.MockTransactionManager,
	setup func(factory *mockRepo.MockRepositoryFactory),
) {
	t.Helper()

	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(t)
			setup(factory)

			return fn(factory)
		}).
		Once()
}
