package repository

import "context"

// TransactionManager lets use cases run several repository calls atomically
// without depending on a specific DB driver.
type TransactionManager interface {
	// Execute runs fn within a database transaction. The transaction is rolled
	// back if fn returns an error or panics, and committed otherwise.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to the current transaction.
type RepositoryFactory interface {
	UserRepo() UserRepository
	PostRepo() PostRepository
}
