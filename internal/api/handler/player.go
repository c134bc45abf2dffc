package handler

import (
	"time"

	"sanguo/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPlayer struct {
	container *do.Injector
}

func (gr *groupPlayer) Me(c echo.Context) error {
	player, err := ResolveValidPlayer(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, player, nil)
}

func (gr *groupPlayer) SignIn(c echo.Context) error {
	servicePlayer, err := do.Invoke[*services.ServicePlayer](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	reward, err := servicePlayer.SignIn(ctx, player.ID, time.Now())
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, reward, nil)
}

func (gr *groupPlayer) Roster(c echo.Context) error {
	servicePlayer, err := do.Invoke[*services.ServicePlayer](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	roster, err := servicePlayer.Roster(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, roster, nil)
}

func (gr *groupPlayer) Inventory(c echo.Context) error {
	servicePlayer, err := do.Invoke[*services.ServicePlayer](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	items, err := servicePlayer.Inventory(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, items, nil)
}

func (gr *groupPlayer) Collection(c echo.Context) error {
	servicePlayer, err := do.Invoke[*services.ServicePlayer](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	collection, err := servicePlayer.Collection(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, collection, nil)
}
