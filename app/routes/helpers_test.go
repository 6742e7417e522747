package routes

import (
	"net/http"
	"testing"
	"time"

	"miniblog/app/controllers"
	"miniblog/app/logger"
	"miniblog/app/repositories"
	"miniblog/app/repositories/mock"
	"miniblog/app/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// setupTestRouter builds the full handler chain over an in-memory Badger store.
func setupTestRouter(t *testing.T) (http.Handler, repositories.PostRepository) {
	t.Helper()
	db, err := repositories.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repositories.NewBadgerPostRepository(db)
	require.NoError(t, repo.EnsureSchema(t.Context()))
	return newRouter(repo, prometheus.NewRegistry()), repo
}

// setupMockRouter builds the handler chain over the in-memory mock with a
// frozen clock so response bodies are reproducible.
func setupMockRouter(t *testing.T) (http.Handler, *mock.PostRepository) {
	t.Helper()
	repo := mock.NewPostRepository()
	frozen := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	repo.Now = func() time.Time { return frozen }
	return newRouter(repo, nil), repo
}

func newRouter(repo repositories.PostRepository, reg *prometheus.Registry) http.Handler {
	return SetupRoutes(Dependencies{
		Posts:    controllers.NewPostController(services.NewPostService(repo)),
		Home:     controllers.NewHomeController(),
		Logger:   logger.Discard(),
		Registry: reg,
	})
}
