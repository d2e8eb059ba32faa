package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"estack-backend/internal/adapter/aggregator/pawapay"
	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/callback"
	"estack-backend/internal/usecase/deposit"
	"estack-backend/internal/usecase/payout"

	"github.com/labstack/echo/v4"
)

const maxCallbackBody = 1 << 20

type CallbackHandler struct {
	deposits *deposit.Usecase
	payouts  *payout.Usecase
	events   callback.Repository
}

func NewCallbackHandler(d *deposit.Usecase, p *payout.Usecase, events callback.Repository) *CallbackHandler {
	return &CallbackHandler{deposits: d, payouts: p, events: events}
}

type callbackResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var received = callbackResp{Status: "success", Message: "Callback received"}

// Receive accepts a callback of either kind, inferred from its id field.
func (h *CallbackHandler) Receive(c echo.Context) error { return h.handle(c, "") }

func (h *CallbackHandler) ReceiveDeposit(c echo.Context) error {
	return h.handle(c, callback.KindDeposit)
}

func (h *CallbackHandler) ReceivePayout(c echo.Context) error {
	return h.handle(c, callback.KindPayout)
}

func (h *CallbackHandler) handle(c echo.Context, kind callback.Kind) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCallbackBody))
	if err != nil {
		return badBody(c)
	}
	upd, err := pawapay.ParseCallback(kind, raw)
	if err != nil {
		var mf *aggregator.MissingFieldsError
		if errors.As(err, &mf) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: mf.Error()})
		}
		return respondError(c, err)
	}
	log.Printf("callback %s %s: status=%s", upd.Kind, upd.ID, upd.Status)

	ctx := c.Request().Context()
	var applied bool
	switch upd.Kind {
	case callback.KindPayout:
		dto, err := h.payouts.ApplyUpdate(ctx, *upd)
		if err != nil {
			return respondError(c, err)
		}
		applied = dto != nil
	default:
		dto, err := h.deposits.ApplyUpdate(ctx, *upd)
		if err != nil {
			return respondError(c, err)
		}
		applied = dto != nil
	}
	if !applied {
		return c.JSON(http.StatusOK, callbackResp{Status: "ignored", Message: "Unknown " + string(upd.Kind) + " " + upd.ID})
	}
	return c.JSON(http.StatusOK, received)
}

// Events lists the raw callbacks recorded for an external id.
func (h *CallbackHandler) Events(c echo.Context) error {
	list, err := h.events.ListByExternalID(c.Request().Context(), c.Param("external_id"))
	if err != nil {
		return respondError(c, err)
	}
	if list == nil {
		list = []callback.Event{}
	}
	return c.JSON(http.StatusOK, list)
}
