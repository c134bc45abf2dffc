package handler

import (
	"sanguo/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupTeam struct {
	container *do.Injector
}

// prepare resolves the team service, the caller and the :general param.
func (gr *groupTeam) prepare(c echo.Context) (*services.ServiceTeam, int64, int64, error) {
	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return nil, 0, 0, errorx.Wrap(err, errorx.Service)
	}

	ownedID, err := paramID(c, "general")
	if err != nil {
		return nil, 0, 0, err
	}

	player, err := ResolveValidPlayer(c.Request().Context(), gr.container)
	if err != nil {
		return nil, 0, 0, err
	}
	return serviceTeam, player.ID, ownedID, nil
}

func (gr *groupTeam) Add(c echo.Context) error {
	serviceTeam, playerID, ownedID, err := gr.prepare(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceTeam.AddToTeam(c.Request().Context(), playerID, ownedID); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, true, nil)
}

func (gr *groupTeam) Remove(c echo.Context) error {
	serviceTeam, playerID, ownedID, err := gr.prepare(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceTeam.RemoveFromTeam(c.Request().Context(), playerID, ownedID); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, true, nil)
}

func (gr *groupTeam) AutoTeam(c echo.Context) error {
	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	team, err := serviceTeam.AutoTeam(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, team, nil)
}

func (gr *groupTeam) Evolve(c echo.Context) error {
	serviceTeam, playerID, ownedID, err := gr.prepare(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	general, err := serviceTeam.Evolve(c.Request().Context(), playerID, ownedID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, general, nil)
}

func (gr *groupTeam) Equip(c echo.Context) error {
	serviceTeam, playerID, ownedID, err := gr.prepare(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	equipmentID, err := paramID(c, "equipment")
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceTeam.Equip(c.Request().Context(), playerID, ownedID, equipmentID); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, true, nil)
}

func (gr *groupTeam) AutoEquip(c echo.Context) error {
	serviceTeam, playerID, ownedID, err := gr.prepare(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	equipped, err := serviceTeam.AutoEquip(c.Request().Context(), playerID, ownedID)
	if err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, equipped, nil)
}

func (gr *groupTeam) Unequip(c echo.Context) error {
	serviceTeam, playerID, ownedID, err := gr.prepare(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceTeam.Unequip(c.Request().Context(), playerID, ownedID); err != nil {
		return httpx.RestAbort(c, nil, classify(err))
	}

	return httpx.RestAbort(c, true, nil)
}
