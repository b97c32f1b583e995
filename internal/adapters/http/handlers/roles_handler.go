package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/core/services"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/response"
)

// RolesHandler handles capability role administration
type RolesHandler struct {
	rolesService *services.RolesService
}

// NewRolesHandler creates a new roles handler
func NewRolesHandler(rolesService *services.RolesService) *RolesHandler {
	return &RolesHandler{rolesService: rolesService}
}

// RoleRequest represents a grant/revoke request body
type RoleRequest struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

// Grant grants a capability role to an address (admin)
// @Summary Grant role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoleRequest true "Grant data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roles/grant [post]
func (h *RolesHandler) Grant(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Address == "" || req.Role == "" {
		return response.BadRequest(c, "Address and role are required")
	}

	caller := middleware.CallerAddress(c)
	if err := h.rolesService.Grant(c.Context(), caller, req.Address, req.Role); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Role granted", nil)
}

// Revoke revokes a capability role from an address (admin)
// @Summary Revoke role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoleRequest true "Revoke data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roles/revoke [post]
func (h *RolesHandler) Revoke(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Address == "" || req.Role == "" {
		return response.BadRequest(c, "Address and role are required")
	}

	caller := middleware.CallerAddress(c)
	if err := h.rolesService.Revoke(c.Context(), caller, req.Address, req.Role); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Role revoked", nil)
}

// List returns the roles granted to an address
// @Summary List roles for address
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param address path string true "Wallet address"
// @Success 200 {object} response.Response
// @Router /roles/{address} [get]
func (h *RolesHandler) List(c *fiber.Ctx) error {
	address := c.Params("address")

	roles, err := h.rolesService.ListRoles(c.Context(), address)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Roles retrieved", fiber.Map{
		"address": address,
		"roles":   roles,
	})
}
