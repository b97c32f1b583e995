package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/core/services"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/response"
)

// LendingHandler handles loan and pool endpoints
type LendingHandler struct {
	lendingService *services.LendingService
}

// NewLendingHandler creates a new lending handler
func NewLendingHandler(lendingService *services.LendingService) *LendingHandler {
	return &LendingHandler{lendingService: lendingService}
}

// RequestLoanRequest represents a loan request body
type RequestLoanRequest struct {
	Token           string `json:"token"`
	Principal       uint64 `json:"principal"`
	DurationSeconds int64  `json:"duration_seconds"`
	IsPoolLoan      bool   `json:"is_pool_loan"`
}

// RepayLoanRequest represents a repayment body; amount 0 settles in full
type RepayLoanRequest struct {
	Amount uint64 `json:"amount"`
}

// PoolRequest represents a pool deposit/withdrawal body
type PoolRequest struct {
	Token  string `json:"token"`
	Amount uint64 `json:"amount"`
}

// RequestLoan opens a pending loan for the caller
// @Summary Request loan
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RequestLoanRequest true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans [post]
func (h *LendingHandler) RequestLoan(c *fiber.Ctx) error {
	var req RequestLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	borrower := middleware.CallerAddress(c)
	loan, err := h.lendingService.RequestLoan(c.Context(), borrower, req.Token, req.Principal, req.DurationSeconds, req.IsPoolLoan)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Loan requested", fiber.Map{"loan": loan})
}

// GetLoan returns a loan by id
// @Summary Get loan
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LendingHandler) GetLoan(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan id")
	}

	loan, err := h.lendingService.GetLoan(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loan retrieved", fiber.Map{"loan": loan})
}

// MyLoans returns the caller's loans
// @Summary List my loans
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LendingHandler) MyLoans(c *fiber.Ctx) error {
	borrower := middleware.CallerAddress(c)

	loans, err := h.lendingService.ListLoansByBorrower(c.Context(), borrower)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loans retrieved", fiber.Map{"loans": loans})
}

// FundLoan funds a pending loan
// @Summary Fund loan
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/fund [post]
func (h *LendingHandler) FundLoan(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan id")
	}

	funder := middleware.CallerAddress(c)
	if err := h.lendingService.FundLoan(c.Context(), funder, id); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loan funded", nil)
}

// RepayLoan applies a repayment to an active loan
// @Summary Repay loan
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan id"
// @Param body body RepayLoanRequest true "Repayment data"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/repay [post]
func (h *LendingHandler) RepayLoan(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan id")
	}

	var req RepayLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payer := middleware.CallerAddress(c)
	if err := h.lendingService.RepayLoan(c.Context(), payer, id, req.Amount); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Repayment applied", nil)
}

// TotalOwed returns the amount owed on a loan right now
// @Summary Get total owed
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan id"
// @Success 200 {object} response.Response
// @Router /loans/{id}/owed [get]
func (h *LendingHandler) TotalOwed(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan id")
	}

	owed, err := h.lendingService.GetTotalOwed(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Total owed computed", fiber.Map{
		"loan_id": id,
		"owed":    owed,
	})
}

// DepositToPool adds the caller's capital to a token pool
// @Summary Deposit to pool
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PoolRequest true "Deposit data"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /pool/deposits [post]
func (h *LendingHandler) DepositToPool(c *fiber.Ctx) error {
	var req PoolRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	depositor := middleware.CallerAddress(c)
	if err := h.lendingService.DepositToPool(c.Context(), depositor, req.Token, req.Amount); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Deposit completed", nil)
}

// WithdrawFromPool returns undeployed capital to the caller
// @Summary Withdraw from pool
// @Tags Lending
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PoolRequest true "Withdrawal data"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /pool/withdrawals [post]
func (h *LendingHandler) WithdrawFromPool(c *fiber.Ctx) error {
	var req PoolRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	depositor := middleware.CallerAddress(c)
	if err := h.lendingService.WithdrawFromPool(c.Context(), depositor, req.Token, req.Amount); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Withdrawal completed", nil)
}

// PoolAccount returns the pool state for a token, plus the caller's position
// @Summary Get pool account
// @Tags Lending
// @Produce json
// @Security BearerAuth
// @Param token path string true "Token symbol"
// @Success 200 {object} response.Response
// @Router /pool/{token} [get]
func (h *LendingHandler) PoolAccount(c *fiber.Ctx) error {
	token := c.Params("token")

	account, err := h.lendingService.GetPoolAccount(c.Context(), token)
	if err != nil {
		return response.DomainError(c, err)
	}
	position, err := h.lendingService.GetPoolPosition(c.Context(), token, middleware.CallerAddress(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Pool retrieved", fiber.Map{
		"account":  account,
		"position": position,
	})
}

// parseID parses the :id path parameter
func parseID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}
