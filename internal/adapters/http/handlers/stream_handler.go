package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/core/services"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/response"
)

// StreamHandler handles payment stream endpoints
type StreamHandler struct {
	streamService *services.StreamService
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(streamService *services.StreamService) *StreamHandler {
	return &StreamHandler{streamService: streamService}
}

// CreateStreamRequest represents a create-stream request body
type CreateStreamRequest struct {
	Recipient       string `json:"recipient"`
	Token           string `json:"token"`
	RatePerSecond   uint64 `json:"rate_per_second"`
	DurationSeconds int64  `json:"duration_seconds"`
	InitialDeposit  uint64 `json:"initial_deposit"`
}

// WithdrawStreamRequest represents a withdraw body; amount 0 takes everything
type WithdrawStreamRequest struct {
	Amount uint64 `json:"amount"`
}

// Create opens a new stream from the caller
// @Summary Create stream
// @Tags Streams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateStreamRequest true "Stream data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /streams [post]
func (h *StreamHandler) Create(c *fiber.Ctx) error {
	var req CreateStreamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payer := middleware.CallerAddress(c)
	stream, err := h.streamService.CreateStream(c.Context(), payer, req.Recipient, req.Token, req.RatePerSecond, req.DurationSeconds, req.InitialDeposit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Stream created", fiber.Map{"stream": stream})
}

// Get returns a stream by id
// @Summary Get stream
// @Tags Streams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /streams/{id} [get]
func (h *StreamHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid stream id")
	}

	stream, err := h.streamService.GetStream(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Stream retrieved", fiber.Map{"stream": stream})
}

// Mine returns the caller's streams
// @Summary List my streams
// @Tags Streams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /streams [get]
func (h *StreamHandler) Mine(c *fiber.Ctx) error {
	address := middleware.CallerAddress(c)

	streams, err := h.streamService.ListStreamsByParticipant(c.Context(), address)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Streams retrieved", fiber.Map{"streams": streams})
}

// Available returns the withdrawable balance of a stream
// @Summary Get available balance
// @Tags Streams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream id"
// @Success 200 {object} response.Response
// @Router /streams/{id}/available [get]
func (h *StreamHandler) Available(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid stream id")
	}

	available, err := h.streamService.GetAvailableBalance(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Available balance computed", fiber.Map{
		"stream_id": id,
		"available": available,
	})
}

// Withdraw pays accrued funds to the recipient
// @Summary Withdraw from stream
// @Tags Streams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream id"
// @Param body body WithdrawStreamRequest true "Withdrawal data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /streams/{id}/withdraw [post]
func (h *StreamHandler) Withdraw(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid stream id")
	}

	var req WithdrawStreamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	caller := middleware.CallerAddress(c)
	amount, err := h.streamService.WithdrawFromStream(c.Context(), caller, id, req.Amount)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Withdrawal completed", fiber.Map{"amount": amount})
}

// Pause freezes a stream's accrual
// @Summary Pause stream
// @Tags Streams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /streams/{id}/pause [post]
func (h *StreamHandler) Pause(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid stream id")
	}

	caller := middleware.CallerAddress(c)
	if err := h.streamService.PauseStream(c.Context(), caller, id); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Stream paused", nil)
}

// Resume restarts a paused stream
// @Summary Resume stream
// @Tags Streams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /streams/{id}/resume [post]
func (h *StreamHandler) Resume(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid stream id")
	}

	caller := middleware.CallerAddress(c)
	if err := h.streamService.ResumeStream(c.Context(), caller, id); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Stream resumed", nil)
}

// Cancel settles and terminates a stream
// @Summary Cancel stream
// @Tags Streams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stream id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /streams/{id}/cancel [post]
func (h *StreamHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid stream id")
	}

	caller := middleware.CallerAddress(c)
	if err := h.streamService.CancelStream(c.Context(), caller, id); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Stream cancelled", nil)
}
