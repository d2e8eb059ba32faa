package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/transaction"
	"estack-backend/internal/usecase/deposit"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type DepositHandler struct{ uc *deposit.Usecase }

func NewDepositHandler(uc *deposit.Usecase) *DepositHandler { return &DepositHandler{uc: uc} }

type initiateDepositReq struct {
	UserID      string          `json:"user_id"      validate:"max=64"`
	DepositID   string          `json:"deposit_id"   validate:"omitempty,uuid"`
	Amount      decimal.Decimal `json:"amount"       validate:"dgt0,dec2"`
	Currency    string          `json:"currency"     validate:"required,iso4217"`
	PhoneNumber string          `json:"phone_number" validate:"required,msisdn"`
	Provider    string          `json:"provider"     validate:"required,max=64"`
	Description string          `json:"description"  validate:"max=255"`
	Metadata    json.RawMessage `json:"metadata"`
}

type unavailableResp struct {
	Error     string `json:"error"`
	DepositID string `json:"deposit_id,omitempty"`
	PayoutID  string `json:"payout_id,omitempty"`
}

func (h *DepositHandler) Initiate(c echo.Context) error {
	var req initiateDepositReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	meta := bytes.TrimSpace(req.Metadata)
	if len(meta) > 0 && string(meta) != "null" && meta[0] != '{' {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "metadata", Message: "must be a JSON object"}},
		})
	}
	if string(meta) == "null" {
		meta = nil
	}

	dto, err := h.uc.Initiate(c.Request().Context(), deposit.InitiateInput{
		UserID:      req.UserID,
		DepositID:   req.DepositID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		PhoneNumber: req.PhoneNumber,
		Provider:    req.Provider,
		Description: req.Description,
		Metadata:    meta,
	})
	if err != nil {
		if errors.Is(err, aggregator.ErrUnavailable) && dto != nil {
			return c.JSON(http.StatusBadGateway, unavailableResp{Error: err.Error(), DepositID: dto.DepositID})
		}
		return respondError(c, err)
	}
	if dto.Status == string(transaction.StatusFailed) {
		return c.JSON(http.StatusOK, dto)
	}
	return c.JSON(http.StatusAccepted, dto)
}

func (h *DepositHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("deposit_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DepositHandler) ListByUser(c echo.Context) error {
	list, err := h.uc.ListByUser(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Refresh re-reads the deposit status from the aggregator.
func (h *DepositHandler) Refresh(c echo.Context) error {
	dto, err := h.uc.Refresh(c.Request().Context(), c.Param("deposit_id"))
	if err != nil {
		if errors.Is(err, aggregator.ErrUnavailable) && dto != nil {
			return c.JSON(http.StatusBadGateway, unavailableResp{Error: err.Error(), DepositID: dto.DepositID})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
