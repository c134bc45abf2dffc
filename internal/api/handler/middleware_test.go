package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sanguo/internal/app"
	"sanguo/internal/config"
	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/pkg/limiter"
	"sanguo/internal/services"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	container := app.NewContainer(map[string]string{
		"DB_DRIVER":   app.DriverSqlite,
		"DB_DSN":      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		"RULES_FILE":  "",
		"REDIS_CACHE": "",
		"REDIS_MUTEX": "",
	})
	t.Cleanup(func() {
		//nolint:errcheck
		container.Shutdown()
	})

	ctx := context.Background()
	require.NoError(t, datastore.Migrate(ctx, do.MustInvoke[*bun.DB](container)))

	seed, err := config.LoadCatalog("")
	require.NoError(t, err)
	require.NoError(t, do.MustInvoke[*services.ServiceCatalog](container).Seed(ctx, seed))

	r := echo.New()
	r.Use(Authn())
	p := groupPlayer{container}
	r.GET("/me", p.Me)
	return r
}

func serve(r *echo.Echo, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthn(t *testing.T) {
	r := newTestRouter(t)

	t.Run("anonymous", func(t *testing.T) {
		rec := serve(r, nil)
		assert.NotEqual(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3"} {
			rec := serve(r, map[string]string{headerPlayerID: id})
			assert.NotEqual(t, http.StatusOK, rec.Code, id)
		}
	})

	t.Run("creates the player", func(t *testing.T) {
		rec := serve(r, map[string]string{headerPlayerID: "42", headerPlayerName: "刘备"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "刘备")
	})

	t.Run("default name", func(t *testing.T) {
		rec := serve(r, map[string]string{headerPlayerID: "7"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "主公7")
	})
}

func TestClassify(t *testing.T) {
	limited := errors.Wrap(limiter.ErrRateLimited, "draw")
	assert.Equal(t, limited, classify(limited))

	for _, err := range []error{
		engine.ErrNotFound,
		engine.ErrPrecondition,
		engine.ErrInsufficientResource,
		errors.New("boom"),
	} {
		assert.NotEqual(t, err, classify(err))
	}
}
