package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/skz_roster/internal/service"
	"github.com/Skotchmaster/skz_roster/internal/transport"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
)

// RosterHTTP serves members, pets, positions and sub-units.
type RosterHTTP struct {
	Svc *service.RosterService
}

func (h *RosterHTTP) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.list")

	members, err := h.Svc.ListMembers(ctx)
	if err != nil {
		return fail(l, "list_members_error", err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *RosterHTTP) SearchMembers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.search")

	members, err := h.Svc.SearchMembers(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(l, "search_members_error", err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *RosterHTTP) GetMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.get")

	id, err := pathID(c, l, "get_member_error", "id", "Invalid member ID")
	if err != nil {
		return err
	}
	m, err := h.Svc.GetMember(ctx, id)
	if err != nil {
		return fail(l, "get_member_error", err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *RosterHTTP) MemberPositions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.positions")

	id, err := pathID(c, l, "member_positions_error", "id", "Invalid member ID")
	if err != nil {
		return err
	}
	positions, err := h.Svc.MemberPositions(ctx, id)
	if err != nil {
		return fail(l, "member_positions_error", err)
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *RosterHTTP) MemberSubUnits(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.sub_units")

	id, err := pathID(c, l, "member_sub_units_error", "id", "Invalid member ID")
	if err != nil {
		return err
	}
	units, err := h.Svc.MemberSubUnits(ctx, id)
	if err != nil {
		return fail(l, "member_sub_units_error", err)
	}
	return c.JSON(http.StatusOK, units)
}

func (h *RosterHTTP) CreateMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.create")

	var req transport.MemberRequest
	if err := bind(c, l, "create_member_error", &req); err != nil {
		return err
	}
	m, err := h.Svc.CreateMember(ctx, req)
	if err != nil {
		return fail(l, "create_member_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Member created successfully",
		"member":  m,
	})
}

func (h *RosterHTTP) UpdateMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.update")

	id, err := pathID(c, l, "update_member_error", "id", "Invalid member ID")
	if err != nil {
		return err
	}
	var req transport.MemberRequest
	if err := bind(c, l, "update_member_error", &req); err != nil {
		return err
	}
	m, err := h.Svc.UpdateMember(ctx, id, req)
	if err != nil {
		return fail(l, "update_member_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Member updated successfully",
		"member":  m,
	})
}

func (h *RosterHTTP) DeleteMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members.delete")

	id, err := pathID(c, l, "delete_member_error", "id", "Invalid member ID")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteMember(ctx, id); err != nil {
		return fail(l, "delete_member_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Member deleted successfully"})
}
