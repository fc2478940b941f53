package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/repository/firestore"
	"github.com/flatconnect/flatconnect/pkg/repository/memory"
)

func newMemoryRepo(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID is not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Logf("failed to close firestore repository: %v", err)
		}
	})

	return repo
}
