package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Root          *Handler
	Deposits      *DepositHandler
	Callbacks     *CallbackHandler
	Loans         *LoanHandler
	Payouts       *PayoutHandler
	Notifications *NotificationHandler
}

// Register mounts every route on e. idem wraps client-initiated mutations and
// admin guards /admin; either may be nil.
func Register(e *echo.Echo, h Handlers, idem, admin echo.MiddlewareFunc) {
	var mutating []echo.MiddlewareFunc
	if idem != nil {
		mutating = append(mutating, idem)
	}

	e.GET("/", h.Root.Home)
	e.GET("/health", h.Root.Health)

	// aggregator callbacks
	e.POST("/callback", h.Callbacks.Receive)
	e.POST("/callbacks/deposits", h.Callbacks.ReceiveDeposit)
	e.POST("/callbacks/payouts", h.Callbacks.ReceivePayout)

	// deposits / investments
	e.POST("/deposits", h.Deposits.Initiate, mutating...)
	e.GET("/deposits/:deposit_id", h.Deposits.Get)
	e.POST("/deposits/:deposit_id/refresh", h.Deposits.Refresh)
	e.GET("/users/:user_id/investments", h.Deposits.ListByUser)

	// loans
	e.POST("/loans", h.Loans.Request, mutating...)
	e.GET("/loans/:loan_id", h.Loans.Get)
	e.POST("/loans/:loan_id/repay", h.Loans.Repay, mutating...)
	e.GET("/loans/:loan_id/payouts", h.Payouts.ListByLoan)
	e.GET("/users/:user_id/loans", h.Loans.ListByUser)

	// payouts
	e.GET("/payouts/:payout_id", h.Payouts.Get)
	e.POST("/payouts/:payout_id/refresh", h.Payouts.Refresh)

	e.GET("/users/:user_id/notifications", h.Notifications.List)

	g := e.Group("/admin")
	if admin != nil {
		g.Use(admin)
	}
	g.POST("/loans/:loan_id/approve", h.Loans.Approve)
	g.POST("/loans/:loan_id/reject", h.Loans.Reject)
	g.POST("/loans/:loan_id/status", h.Loans.Decide)
	g.POST("/loans/:loan_id/disburse", h.Loans.Disburse, mutating...)
	g.GET("/callbacks/:external_id", h.Callbacks.Events)
}
