package handler

import (
	"context"

	"sanguo/internal/models"
	"sanguo/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupGacha struct {
	container *do.Injector
}

func (gr *groupGacha) DrawSingle(c echo.Context) error {
	return gr.draw(c, (*services.ServiceGacha).DrawSingle)
}

func (gr *groupGacha) DrawTen(c echo.Context) error {
	return gr.draw(c, (*services.ServiceGacha).DrawTen)
}

func (gr *groupGacha) draw(c echo.Context, fn func(*services.ServiceGacha, context.Context, int64) (*models.DrawResult, error)) error {
	serviceGacha, err := do.Invoke[*services.ServiceGacha](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	result, err := fn(serviceGacha, ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, result, nil)
}
