package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/skz_roster/internal/transport"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
)

func (h *RosterHTTP) ListPositions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.list")

	positions, err := h.Svc.ListPositions(ctx)
	if err != nil {
		return fail(l, "list_positions_error", err)
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *RosterHTTP) GetPosition(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.get")

	id, err := pathID(c, l, "get_position_error", "id", "Invalid position ID")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetPosition(ctx, id)
	if err != nil {
		return fail(l, "get_position_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *RosterHTTP) CreatePosition(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.create")

	var req transport.NameRequest
	if err := bind(c, l, "create_position_error", &req); err != nil {
		return err
	}
	p, err := h.Svc.CreatePosition(ctx, req)
	if err != nil {
		return fail(l, "create_position_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Position created successfully",
		"position": p,
	})
}

func (h *RosterHTTP) UpdatePosition(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.update")

	id, err := pathID(c, l, "update_position_error", "id", "Invalid position ID")
	if err != nil {
		return err
	}
	var req transport.NameRequest
	if err := bind(c, l, "update_position_error", &req); err != nil {
		return err
	}
	p, err := h.Svc.UpdatePosition(ctx, id, req)
	if err != nil {
		return fail(l, "update_position_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Position updated successfully",
		"position": p,
	})
}

func (h *RosterHTTP) DeletePosition(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.delete")

	id, err := pathID(c, l, "delete_position_error", "id", "Invalid position ID")
	if err != nil {
		return err
	}
	if err := h.Svc.DeletePosition(ctx, id); err != nil {
		return fail(l, "delete_position_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Position deleted successfully"})
}

func (h *RosterHTTP) PositionMembers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.members")

	id, err := pathID(c, l, "position_members_error", "id", "Invalid position ID")
	if err != nil {
		return err
	}
	ids, err := h.Svc.PositionMembers(ctx, id)
	if err != nil {
		return fail(l, "position_members_error", err)
	}
	return c.JSON(http.StatusOK, transport.PositionMembersResponse{PositionID: id, MemberIDs: ids})
}

func (h *RosterHTTP) AddPositionMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.add_member")

	id, memberID, err := membershipIDs(c, l, "add_position_member_error", "Invalid position ID")
	if err != nil {
		return err
	}
	if err := h.Svc.AddMemberToPosition(ctx, id, memberID); err != nil {
		return fail(l, "add_position_member_error", err)
	}
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "Member added to position successfully"})
}

func (h *RosterHTTP) RemovePositionMember(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "positions.remove_member")

	id, memberID, err := membershipIDs(c, l, "remove_position_member_error", "Invalid position ID")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveMemberFromPosition(ctx, id, memberID); err != nil {
		return fail(l, "remove_position_member_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Member removed from position successfully"})
}
