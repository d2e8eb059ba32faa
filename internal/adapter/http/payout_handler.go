package http

import (
	"errors"
	"net/http"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/usecase/payout"

	"github.com/labstack/echo/v4"
)

type PayoutHandler struct{ uc *payout.Usecase }

func NewPayoutHandler(uc *payout.Usecase) *PayoutHandler { return &PayoutHandler{uc: uc} }

func (h *PayoutHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("payout_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PayoutHandler) ListByLoan(c echo.Context) error {
	list, err := h.uc.ListByLoan(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PayoutHandler) Refresh(c echo.Context) error {
	dto, err := h.uc.Refresh(c.Request().Context(), c.Param("payout_id"))
	if err != nil {
		if errors.Is(err, aggregator.ErrUnavailable) && dto != nil {
			return c.JSON(http.StatusBadGateway, unavailableResp{Error: err.Error(), PayoutID: dto.PayoutID})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
