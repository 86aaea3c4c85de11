package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/skz_roster/internal/transport"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
)

func (h *RosterHTTP) ListSubUnits(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.list")

	units, err := h.Svc.ListSubUnits(ctx)
	if err != nil {
		return fail(l, "list_sub_units_error", err)
	}
	return c.JSON(http.StatusOK, units)
}

func (h *RosterHTTP) GetSubUnit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.get")

	id, err := pathID(c, l, "get_sub_unit_error", "id", "Invalid sub-unit ID")
	if err != nil {
		return err
	}
	u, err := h.Svc.GetSubUnit(ctx, id)
	if err != nil {
		return fail(l, "get_sub_unit_error", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *RosterHTTP) CreateSubUnit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.create")

	var req transport.NameRequest
	if err := bind(c, l, "create_sub_unit_error", &req); err != nil {
		return err
	}
	u, err := h.Svc.CreateSubUnit(ctx, req)
	if err != nil {
		return fail(l, "create_sub_unit_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Sub-unit created successfully",
		"subUnit": u,
	})
}

func (h *RosterHTTP) UpdateSubUnit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.update")

	id, err := pathID(c, l, "update_sub_unit_error", "id", "Invalid sub-unit ID")
	if err != nil {
		return err
	}
	var req transport.NameRequest
	if err := bind(c, l, "update_sub_unit_error", &req); err != nil {
		return err
	}
	u, err := h.Svc.UpdateSubUnit(ctx, id, req)
	if err != nil {
		return fail(l, "update_sub_unit_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Sub-unit updated successfully",
		"subUnit": u,
	})
}

func (h *RosterHTTP) DeleteSubUnit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.delete")

	id, err := pathID(c, l, "delete_sub_unit_error", "id", "Invalid sub-unit ID")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteSubUnit(ctx, id); err != nil {
		return fail(l, "delete_sub_unit_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Sub-unit deleted successfully"})
}

func (h *RosterHTTP) SubUnitMembers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.members")

	id, err := pathID(c, l, "sub_unit_members_error", "id", "Invalid sub-unit ID")
	if err != nil {
		return err
	}
	ids, err := h.Svc.SubUnitMembers(ctx, id)
	if err != nil {
		return fail(l, "sub_unit_members_error", err)
	}
	return c.JSON(http.StatusOK, transport.SubUnitMembersResponse{SubUnitID: id, MemberIDs: ids})
}

func (h *RosterHTTP) AddSubUnitMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.add_member")

	id, memberID, err := membershipIDs(c, l, "add_sub_unit_member_error", "Invalid sub-unit ID")
	if err != nil {
		return err
	}
	if err := h.Svc.AddMemberToSubUnit(ctx, id, memberID); err != nil {
		return fail(l, "add_sub_unit_member_error", err)
	}
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "Member added to sub-unit successfully"})
}

func (h *RosterHTTP) RemoveSubUnitMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sub_units.remove_member")

	id, memberID, err := membershipIDs(c, l, "remove_sub_unit_member_error", "Invalid sub-unit ID")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveMemberFromSubUnit(ctx, id, memberID); err != nil {
		return fail(l, "remove_sub_unit_member_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Member removed from sub-unit successfully"})
}

func membershipIDs(c echo.Context, l *slog.Logger, event, idMsg string) (uint, uint, error) {
	id, err := pathID(c, l, event, "id", idMsg)
	if err != nil {
		return 0, 0, err
	}
	memberID, err := pathID(c, l, event, "memberId", "Invalid member ID")
	if err != nil {
		return 0, 0, err
	}
	return id, memberID, nil
}
