package http

import (
	"errors"
	"net/http"

	"estack-backend/internal/adapter/middleware"
	"estack-backend/internal/domain/aggregator"
	domain "estack-backend/internal/domain/loan"
	"estack-backend/internal/domain/payout"
	"estack-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	UserID             string          `json:"user_id"              validate:"required,max=64"`
	Amount             decimal.Decimal `json:"amount"               validate:"dgt0,dec2"`
	InterestRate       decimal.Decimal `json:"interest_rate"        validate:"rate"`
	ExpectedReturnDate string          `json:"expected_return_date" validate:"required,datetime=2006-01-02"`
	Currency           string          `json:"currency"             validate:"required,iso4217"`
	PhoneNumber        string          `json:"phone_number"         validate:"required,msisdn"`
	Provider           string          `json:"provider"             validate:"required,max=64"`
	InvestmentID       string          `json:"investment_id"        validate:"omitempty,uuid"`
}

func (h *LoanHandler) Request(c echo.Context) error {
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Request(c.Request().Context(), loan.RequestLoanInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListByUser(c echo.Context) error {
	list, err := h.uc.ListByUser(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type decisionReq struct {
	LoanID     string `param:"loan_id"     validate:"required,hex32"`
	ApproverID string `json:"approver_id"  validate:"max=64"`
	Reason     string `json:"reason"       validate:"max=1000"`
	Status     string `json:"status"       validate:"max=16"`
}

// bindDecision reads an admin decision. The authenticated admin, when
// present, takes precedence over the approver_id in the body.
func bindDecision(c echo.Context) (*decisionReq, error) {
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return nil, badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return nil, validationFailed(c, err)
	}
	if id := middleware.AdminID(c); id != "" {
		req.ApproverID = id
	}
	if req.ApproverID == "" {
		return nil, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "approver_id", Message: "is required"}},
		})
	}
	return &req, nil
}

func (h *LoanHandler) Approve(c echo.Context) error {
	req, err := bindDecision(c)
	if req == nil {
		return err
	}
	dto, err := h.uc.Approve(c.Request().Context(), req.LoanID, req.ApproverID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Reject(c echo.Context) error {
	req, err := bindDecision(c)
	if req == nil {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), req.LoanID, req.ApproverID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Decide applies a decision given as a target status. DISAPPROVED is taken
// as REJECTED.
func (h *LoanHandler) Decide(c echo.Context) error {
	req, err := bindDecision(c)
	if req == nil {
		return err
	}
	ctx := c.Request().Context()
	var dto *loan.LoanDTO
	switch status, _ := domain.ParseStatus(req.Status); status {
	case domain.StatusApproved:
		dto, err = h.uc.Approve(ctx, req.LoanID, req.ApproverID)
	case domain.StatusRejected:
		dto, err = h.uc.Reject(ctx, req.LoanID, req.ApproverID, req.Reason)
	default:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "status", Message: "must be APPROVED, REJECTED or DISAPPROVED"}},
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Disburse answers 202 while the payout is PENDING at the aggregator and 200
// once it was rejected outright.
func (h *LoanHandler) Disburse(c echo.Context) error {
	dto, err := h.uc.Disburse(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		if errors.Is(err, aggregator.ErrUnavailable) && dto != nil {
			return c.JSON(http.StatusBadGateway, unavailableResp{Error: err.Error(), PayoutID: dto.PayoutID})
		}
		return respondError(c, err)
	}
	if dto.Status == string(payout.StatusFailed) {
		return c.JSON(http.StatusOK, dto)
	}
	return c.JSON(http.StatusAccepted, dto)
}

type repayReq struct {
	LoanID string          `param:"loan_id" validate:"required,hex32"`
	Amount decimal.Decimal `json:"amount"   validate:"dgt0,dec2"`
}

func (h *LoanHandler) Repay(c echo.Context) error {
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Repay(c.Request().Context(), req.LoanID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
