package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/core/services"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/pagination"
	"github.com/Mentor-Ntech/afriDaily/internal/pkg/response"
)

// WalletHandler handles the stablecoin ledger endpoints
type WalletHandler struct {
	ledgerService *services.LedgerService
	eventService  *services.EventService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(ledgerService *services.LedgerService, eventService *services.EventService) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
		eventService:  eventService,
	}
}

// TransferRequest represents a wallet transfer request body
type TransferRequest struct {
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// MintRequest represents an admin mint request body
type MintRequest struct {
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// AddTokenRequest represents an admin add-token request body
type AddTokenRequest struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// Balances returns the caller's balances for every token
// @Summary List wallet balances
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /wallet/balances [get]
func (h *WalletHandler) Balances(c *fiber.Ctx) error {
	address := middleware.CallerAddress(c)

	balances, err := h.ledgerService.ListBalances(c.Context(), address)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Balances retrieved", fiber.Map{
		"address":  address,
		"balances": balances,
	})
}

// Transfer moves tokens from the caller to another account
// @Summary Transfer tokens
// @Tags Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TransferRequest true "Transfer data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /wallet/transfer [post]
func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.To == "" {
		return response.BadRequest(c, "Recipient is required")
	}
	if req.Amount == 0 {
		return response.BadRequest(c, "Amount must be positive")
	}

	from := middleware.CallerAddress(c)
	if err := h.ledgerService.Transfer(c.Context(), req.Token, from, req.To, req.Amount); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Transfer completed", nil)
}

// Activity returns the caller's paginated event journal
// @Summary Wallet activity
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /wallet/activity [get]
func (h *WalletHandler) Activity(c *fiber.Ctx) error {
	address := middleware.CallerAddress(c)
	params := pagination.GetParams(c)

	events, total, err := h.eventService.ListByAccount(c.Context(), address, params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Activity retrieved", pagination.NewResponse(events, params, total))
}

// Tokens lists the supported tokens
// @Summary List supported tokens
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /wallet/tokens [get]
func (h *WalletHandler) Tokens(c *fiber.Ctx) error {
	tokens, err := h.ledgerService.ListTokens(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Tokens retrieved", fiber.Map{"tokens": tokens})
}

// AddToken registers a new supported token (admin)
// @Summary Add supported token
// @Tags Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddTokenRequest true "Token data"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /wallet/tokens [post]
func (h *WalletHandler) AddToken(c *fiber.Ctx) error {
	var req AddTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Symbol == "" {
		return response.BadRequest(c, "Symbol is required")
	}

	caller := middleware.CallerAddress(c)
	if err := h.ledgerService.AddToken(c.Context(), caller, req.Symbol, req.Name, req.Decimals); err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Token added", nil)
}

// RemoveToken deactivates a supported token (admin)
// @Summary Remove supported token
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param symbol path string true "Token symbol"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /wallet/tokens/{symbol} [delete]
func (h *WalletHandler) RemoveToken(c *fiber.Ctx) error {
	caller := middleware.CallerAddress(c)
	if err := h.ledgerService.RemoveToken(c.Context(), caller, c.Params("symbol")); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Token removed", nil)
}

// Mint credits tokens to an account (admin, dev faucet)
// @Summary Mint tokens
// @Tags Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MintRequest true "Mint data"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /wallet/mint [post]
func (h *WalletHandler) Mint(c *fiber.Ctx) error {
	var req MintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.To == "" {
		return response.BadRequest(c, "Recipient is required")
	}
	if req.Amount == 0 {
		return response.BadRequest(c, "Amount must be positive")
	}

	caller := middleware.CallerAddress(c)
	if err := h.ledgerService.Mint(c.Context(), caller, req.Token, req.To, req.Amount); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Tokens minted", nil)
}
