package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/skz_roster/internal/middleware"
	"github.com/Skotchmaster/skz_roster/internal/models"
)

type Deps struct {
	Auth   *AuthHTTP
	Users  *UsersHTTP
	Roster *RosterHTTP
	AuthMW *middleware.Auth
	// Ready reports whether storage is reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage unavailable").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authn := d.AuthMW.AuthenticateToken
	adminOnly := middleware.AuthorizeRoles(models.RoleAdmin)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.GET("/me", d.Auth.Me, authn)

	users := api.Group("/users", authn)
	users.GET("", d.Users.List, adminOnly)
	users.GET("/:id", d.Users.Get, middleware.AuthorizeOwnerOrAdmin("id"))
	users.PUT("/:id", d.Users.Update, middleware.AuthorizeOwnerOrAdmin("id"))
	users.DELETE("/:id", d.Users.Delete, adminOnly)

	members := api.Group("/members", authn)
	members.GET("", d.Roster.ListMembers)
	members.GET("/search", d.Roster.SearchMembers)
	members.GET("/:id", d.Roster.GetMember)
	members.GET("/:id/positions", d.Roster.MemberPositions)
	members.GET("/:id/sub-units", d.Roster.MemberSubUnits)
	members.POST("", d.Roster.CreateMember, adminOnly)
	members.PUT("/:id", d.Roster.UpdateMember, adminOnly)
	members.DELETE("/:id", d.Roster.DeleteMember, adminOnly)

	pets := api.Group("/pets", authn)
	pets.GET("", d.Roster.ListPets)
	pets.GET("/owner/:ownerId", d.Roster.PetsByOwner)
	pets.GET("/:id", d.Roster.GetPet)
	pets.POST("", d.Roster.CreatePet, adminOnly)
	pets.PUT("/:id", d.Roster.UpdatePet, adminOnly)
	pets.DELETE("/:id", d.Roster.DeletePet, adminOnly)

	positions := api.Group("/positions", authn)
	positions.GET("", d.Roster.ListPositions)
	positions.GET("/:id", d.Roster.GetPosition)
	positions.GET("/:id/members", d.Roster.PositionMembers)
	positions.POST("", d.Roster.CreatePosition, adminOnly)
	positions.PUT("/:id", d.Roster.UpdatePosition, adminOnly)
	positions.DELETE("/:id", d.Roster.DeletePosition, adminOnly)
	positions.POST("/:id/members/:memberId", d.Roster.AddPositionMember, adminOnly)
	positions.DELETE("/:id/members/:memberId", d.Roster.RemovePositionMember, adminOnly)

	subUnits := api.Group("/sub-units", authn)
	subUnits.GET("", d.Roster.ListSubUnits)
	subUnits.GET("/:id", d.Roster.GetSubUnit)
	subUnits.GET("/:id/members", d.Roster.SubUnitMembers)
	subUnits.POST("", d.Roster.CreateSubUnit, adminOnly)
	subUnits.PUT("/:id", d.Roster.UpdateSubUnit, adminOnly)
	subUnits.DELETE("/:id", d.Roster.DeleteSubUnit, adminOnly)
	subUnits.POST("/:id/members/:memberId", d.Roster.AddSubUnitMember, adminOnly)
	subUnits.DELETE("/:id/members/:memberId", d.Roster.RemoveSubUnitMember, adminOnly)
}
