package handler

import (
	"sanguo/internal/services"

	"github.com/cockroachdb/errors"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBattle struct {
	container *do.Injector
}

func (gr *groupBattle) Battle(c echo.Context) error {
	serviceBattle, err := do.Invoke[*services.ServiceBattle](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	campaignID, err := paramID(c, "campaign")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	report, err := serviceBattle.ResolveBattle(ctx, player.ID, campaignID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, report, nil)
}

func (gr *groupBattle) TeamPower(c echo.Context) error {
	serviceBattle, err := do.Invoke[*services.ServiceBattle](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	power, err := serviceBattle.ComputeTeamPower(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, power, nil)
}

func (gr *groupBattle) Bonds(c echo.Context) error {
	serviceBattle, err := do.Invoke[*services.ServiceBattle](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	bonds, err := serviceBattle.EvaluateBonds(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, bonds, nil)
}

func (gr *groupBattle) Campaigns(c echo.Context) error {
	serviceBattle, err := do.Invoke[*services.ServiceBattle](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	campaigns, err := serviceBattle.Campaigns(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, campaigns, nil)
}

func (gr *groupBattle) Reports(c echo.Context) error {
	serviceBattle, err := do.Invoke[*services.ServiceBattle](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	reports, err := serviceBattle.BattleReports(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, reports, nil)
}

func (gr *groupBattle) Report(c echo.Context) error {
	serviceBattle, err := do.Invoke[*services.ServiceBattle](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	id := c.Param("report")
	if id == "" || id == "undefined" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("report is required"), errorx.Invalid))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	report, err := serviceBattle.BattleReport(ctx, player.ID, id)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, report, nil)
}
