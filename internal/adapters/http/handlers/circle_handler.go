package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
	"github.com/Mentor-Ntech/afriDaily/internal/core/services"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/response"
)

// CircleHandler handles savings circle endpoints
type CircleHandler struct {
	circleService *services.CircleService
}

// NewCircleHandler creates a new circle handler
func NewCircleHandler(circleService *services.CircleService) *CircleHandler {
	return &CircleHandler{circleService: circleService}
}

// CreateCircleRequest represents a create-circle request body
type CreateCircleRequest struct {
	Name                  string `json:"name"`
	CircleType            string `json:"circle_type"`
	Token                 string `json:"token"`
	ContributionAmount    uint64 `json:"contribution_amount"`
	ContributionFrequency int64  `json:"contribution_frequency_seconds"`
	MaxMembers            int    `json:"max_members"`
	TotalCycles           uint64 `json:"total_cycles"`
}

// Create registers a new circle with the caller as first member
// @Summary Create circle
// @Tags Circles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCircleRequest true "Circle data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /circles [post]
func (h *CircleHandler) Create(c *fiber.Ctx) error {
	var req CreateCircleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	creator := middleware.CallerAddress(c)
	circle, err := h.circleService.CreateCircle(
		c.Context(),
		creator,
		strings.TrimSpace(req.Name),
		domain.CircleType(strings.ToUpper(req.CircleType)),
		req.Token,
		req.ContributionAmount,
		req.ContributionFrequency,
		req.MaxMembers,
		req.TotalCycles,
	)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Circle created", fiber.Map{"circle": circle})
}

// Get returns a circle with its members
// @Summary Get circle
// @Tags Circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /circles/{id} [get]
func (h *CircleHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid circle id")
	}

	circle, err := h.circleService.GetCircle(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	members, err := h.circleService.ListMembers(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Circle retrieved", fiber.Map{
		"circle":  circle,
		"members": members,
	})
}

// Mine returns the circles the caller belongs to
// @Summary List my circles
// @Tags Circles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /circles [get]
func (h *CircleHandler) Mine(c *fiber.Ctx) error {
	address := middleware.CallerAddress(c)

	circles, err := h.circleService.ListCirclesByMember(c.Context(), address)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Circles retrieved", fiber.Map{"circles": circles})
}

// Join adds the caller as a member
// @Summary Join circle
// @Tags Circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle id"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /circles/{id}/join [post]
func (h *CircleHandler) Join(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid circle id")
	}

	caller := middleware.CallerAddress(c)
	if err := h.circleService.JoinCircle(c.Context(), caller, id); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Joined circle", nil)
}

// Contribute pulls the caller's contribution for the current cycle
// @Summary Contribute to circle
// @Tags Circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle id"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /circles/{id}/contribute [post]
func (h *CircleHandler) Contribute(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid circle id")
	}

	caller := middleware.CallerAddress(c)
	if err := h.circleService.Contribute(c.Context(), caller, id); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Contribution recorded", nil)
}
