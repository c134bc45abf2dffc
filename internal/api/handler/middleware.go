package handler

import (
	"context"
	"strconv"
	"strings"

	"sanguo/internal/engine"
	"sanguo/internal/models"
	"sanguo/internal/pkg/limiter"
	"sanguo/internal/services"

	"github.com/cockroachdb/errors"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthPlayer ctxKey = "AUTH_PLAYER"

const (
	headerPlayerID   = "X-Player-Id"
	headerPlayerName = "X-Player-Name"
)

// Authn trusts the player headers set by the gateway in front of the API.
func Authn() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(headerPlayerID))
			if header == "" {
				return next(c)
			}

			id, err := strconv.ParseInt(header, 10, 64)
			if err != nil || id <= 0 {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid player id"), errorx.Authn), -1)
				return nil
			}

			name := strings.TrimSpace(c.Request().Header.Get(headerPlayerName))
			if name == "" {
				name = "主公" + header
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthPlayer, &models.PlayerFromAuth{ID: id, Name: name})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveValidPlayer(ctx context.Context, container *do.Injector) (*models.Player, error) {
	auth, ok := ctx.Value(ctxKeyAuthPlayer).(*models.PlayerFromAuth)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	servicePlayer, err := do.Invoke[*services.ServicePlayer](container)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	player, err := servicePlayer.FindOrCreatePlayer(ctx, auth)
	if err != nil {
		return nil, classify(err)
	}
	return player, nil
}

// classify maps domain error classes to transport kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, limiter.ErrRateLimited):
		// already carries its kind
		return err
	case errors.Is(err, engine.ErrInsufficientResource):
		return errorx.Wrap(err, errorx.Validation)
	case errors.Is(err, engine.ErrPrecondition):
		return errorx.Wrap(err, errorx.Invalid)
	case errors.Is(err, engine.ErrNotFound):
		return errorx.Wrap(err, errorx.NotExist)
	default:
		return errorx.Wrap(err, errorx.Service)
	}
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorx.Wrap(errors.Newf("%s is required", name), errorx.Invalid)
	}
	return id, nil
}
