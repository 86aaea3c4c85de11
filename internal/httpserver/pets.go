package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/skz_roster/internal/transport"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
)

func (h *RosterHTTP) ListPets(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pets.list")

	pets, err := h.Svc.ListPets(ctx)
	if err != nil {
		return fail(l, "list_pets_error", err)
	}
	return c.JSON(http.StatusOK, pets)
}

func (h *RosterHTTP) GetPet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pets.get")

	id, err := pathID(c, l, "get_pet_error", "id", "Invalid pet ID")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetPet(ctx, id)
	if err != nil {
		return fail(l, "get_pet_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *RosterHTTP) PetsByOwner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pets.by_owner")

	ownerID, err := pathID(c, l, "pets_by_owner_error", "ownerId", "Invalid owner ID")
	if err != nil {
		return err
	}
	pets, err := h.Svc.PetsByOwner(ctx, ownerID)
	if err != nil {
		return fail(l, "pets_by_owner_error", err)
	}
	return c.JSON(http.StatusOK, pets)
}

func (h *RosterHTTP) CreatePet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pets.create")

	var req transport.PetRequest
	if err := bind(c, l, "create_pet_error", &req); err != nil {
		return err
	}
	p, err := h.Svc.CreatePet(ctx, req)
	if err != nil {
		return fail(l, "create_pet_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Pet created successfully",
		"pet":     p,
	})
}

func (h *RosterHTTP) UpdatePet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pets.update")

	id, err := pathID(c, l, "update_pet_error", "id", "Invalid pet ID")
	if err != nil {
		return err
	}
	var req transport.PetRequest
	if err := bind(c, l, "update_pet_error", &req); err != nil {
		return err
	}
	p, err := h.Svc.UpdatePet(ctx, id, req)
	if err != nil {
		return fail(l, "update_pet_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Pet updated successfully",
		"pet":     p,
	})
}

func (h *RosterHTTP) DeletePet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pets.delete")

	id, err := pathID(c, l, "delete_pet_error", "id", "Invalid pet ID")
	if err != nil {
		return err
	}
	if err := h.Svc.DeletePet(ctx, id); err != nil {
		return fail(l, "delete_pet_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Pet deleted successfully"})
}
