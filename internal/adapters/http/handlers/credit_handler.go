package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/core/services"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/response"
)

// CreditHandler handles credit scoring endpoints
type CreditHandler struct {
	creditService *services.CreditService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// RepaymentRequest represents a record-repayment request body
type RepaymentRequest struct {
	Participant string `json:"participant"`
	Amount      uint64 `json:"amount"`
	Timestamp   int64  `json:"timestamp"`
}

// RecordLoanRequest represents a record-loan request body
type RecordLoanRequest struct {
	Participant string `json:"participant"`
	LoanID      uint64 `json:"loan_id"`
	Principal   uint64 `json:"principal"`
}

// CompletionRequest represents a loan-completion request body
type CompletionRequest struct {
	Participant string `json:"participant"`
	LoanID      uint64 `json:"loan_id"`
	Success     bool   `json:"success"`
}

// Score returns a participant's credit score
// @Summary Get credit score
// @Tags Credit
// @Produce json
// @Security BearerAuth
// @Param address path string true "Wallet address"
// @Success 200 {object} response.Response
// @Router /credit/score/{address} [get]
func (h *CreditHandler) Score(c *fiber.Ctx) error {
	address := c.Params("address")

	score, err := h.creditService.GetScore(c.Context(), address)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Score retrieved", fiber.Map{
		"address": address,
		"score":   score,
	})
}

// Profile returns a participant's full credit record
// @Summary Get credit profile
// @Tags Credit
// @Produce json
// @Security BearerAuth
// @Param address path string true "Wallet address"
// @Success 200 {object} response.Response
// @Router /credit/profile/{address} [get]
func (h *CreditHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.creditService.GetProfile(c.Context(), c.Params("address"))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Profile retrieved", fiber.Map{"profile": profile})
}

// RecordRepayment records a repayment against a participant (authorized caller)
// @Summary Record repayment
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RepaymentRequest true "Repayment data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /credit/repayments [post]
func (h *CreditHandler) RecordRepayment(c *fiber.Ctx) error {
	var req RepaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Participant == "" {
		return response.BadRequest(c, "Participant is required")
	}

	caller := middleware.CallerAddress(c)
	if err := h.creditService.RecordRepayment(c.Context(), caller, req.Participant, req.Amount, req.Timestamp); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Repayment recorded", nil)
}

// RecordLoan records a loan against a participant (authorized caller)
// @Summary Record loan
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RecordLoanRequest true "Loan data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /credit/loans [post]
func (h *CreditHandler) RecordLoan(c *fiber.Ctx) error {
	var req RecordLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Participant == "" {
		return response.BadRequest(c, "Participant is required")
	}

	caller := middleware.CallerAddress(c)
	if err := h.creditService.RecordLoan(c.Context(), caller, req.Participant, req.LoanID, req.Principal); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loan recorded", nil)
}

// RecordCompletion records a loan completion (authorized caller)
// @Summary Record loan completion
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CompletionRequest true "Completion data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /credit/completions [post]
func (h *CreditHandler) RecordCompletion(c *fiber.Ctx) error {
	var req CompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Participant == "" {
		return response.BadRequest(c, "Participant is required")
	}

	caller := middleware.CallerAddress(c)
	if err := h.creditService.RecordLoanCompletion(c.Context(), caller, req.Participant, req.LoanID, req.Success); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Completion recorded", nil)
}
