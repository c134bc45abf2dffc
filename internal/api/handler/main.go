package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())
	r.Use(echoprometheus.NewMiddleware("sanguo"))

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "⚔️")
	})
	r.GET("/metrics", echoprometheus.NewHandler())

	routesAPIv1 := r.Group("/api/v1")
	{
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, headerPlayerID, headerPlayerName},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn()) // Authn will NOT terminate anonymous requests.
		routesAPIv1.GET("", Hello)

		ca := groupCatalog{cfg.Container}
		routesAPIv1.GET("/gallery", ca.Gallery)

		routesAPIv1Player := routesAPIv1.Group("/player")
		{
			p := groupPlayer{cfg.Container}
			routesAPIv1Player.GET("/me", p.Me)
			routesAPIv1Player.POST("/signin", p.SignIn)
			routesAPIv1Player.GET("/roster", p.Roster)
			routesAPIv1Player.GET("/inventory", p.Inventory)
			routesAPIv1Player.GET("/collection", p.Collection)
		}

		routesAPIv1Gacha := routesAPIv1.Group("/gacha")
		{
			g := groupGacha{cfg.Container}
			routesAPIv1Gacha.POST("/draw", g.DrawSingle)
			routesAPIv1Gacha.POST("/draw-ten", g.DrawTen)
		}

		routesAPIv1Team := routesAPIv1.Group("/team")
		{
			t := groupTeam{cfg.Container}
			b := groupBattle{cfg.Container}
			routesAPIv1Team.GET("", b.TeamPower)
			routesAPIv1Team.GET("/bonds", b.Bonds)
			routesAPIv1Team.POST("/auto", t.AutoTeam)
			routesAPIv1Team.POST("/:general", t.Add)
			routesAPIv1Team.DELETE("/:general", t.Remove)
		}

		routesAPIv1General := routesAPIv1.Group("/general/:general")
		{
			t := groupTeam{cfg.Container}
			routesAPIv1General.POST("/evolve", t.Evolve)
			routesAPIv1General.POST("/equip/:equipment", t.Equip)
			routesAPIv1General.POST("/auto-equip", t.AutoEquip)
			routesAPIv1General.DELETE("/equipment", t.Unequip)
		}

		b := groupBattle{cfg.Container}
		routesAPIv1.GET("/campaigns", b.Campaigns)
		routesAPIv1.POST("/campaign/:campaign/battle", b.Battle)
		routesAPIv1.GET("/reports", b.Reports)
		routesAPIv1.GET("/report/:report", b.Report)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/power", l.GetPowerLeaderboard)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
