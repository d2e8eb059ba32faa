package main

import (
	"log"

	"estack-backend/internal/adapter/aggregator/pawapay"
	httpadp "estack-backend/internal/adapter/http"
	appmw "estack-backend/internal/adapter/middleware"
	"estack-backend/internal/adapter/repository/sqlstore"
	"estack-backend/internal/config"
	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/usecase/deposit"
	"estack-backend/internal/usecase/loan"
	"estack-backend/internal/usecase/notification"
	"estack-backend/internal/usecase/payout"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// newServer wires repositories, usecases and handlers into an echo instance.
// rdb may be nil, which disables idempotency keys.
func newServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client, gw aggregator.Gateway) *echo.Echo {
	var (
		txs     = sqlstore.NewTransactionRepository(db)
		loans   = sqlstore.NewLoanRepository(db)
		payouts = sqlstore.NewPayoutRepository(db)
		notes   = sqlstore.NewNotificationRepository(db)
		events  = sqlstore.NewCallbackRepository(db)
		tx      = sqlstore.NewGormUoW(db)
	)
	notifier := notification.NewUsecase(notes)
	depUC := deposit.NewUsecase(txs, tx, gw, notifier)
	payUC := payout.NewUsecase(payouts, loans, tx, gw, notifier)
	loanUC := loan.NewUsecase(loans, tx, gw, notifier)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	var idem, admin echo.MiddlewareFunc
	if rdb != nil {
		idem = appmw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL())
	} else {
		log.Println("REDIS_ADDR not set: Idempotency-Key headers are ignored")
	}
	if cfg.AdminJWTSecret != "" {
		admin = appmw.AdminJWT([]byte(cfg.AdminJWTSecret))
	} else {
		log.Println("WARNING: ADMIN_JWT_SECRET not set: /admin routes are unauthenticated")
	}

	httpadp.Register(e, httpadp.Handlers{
		Root:          httpadp.NewHandler(),
		Deposits:      httpadp.NewDepositHandler(depUC),
		Callbacks:     httpadp.NewCallbackHandler(depUC, payUC, events),
		Loans:         httpadp.NewLoanHandler(loanUC),
		Payouts:       httpadp.NewPayoutHandler(payUC),
		Notifications: httpadp.NewNotificationHandler(notifier),
	}, idem, admin)
	return e
}

func newGateway(cfg *config.Config) aggregator.Gateway {
	if cfg.PawaPayAPIToken == "" {
		log.Println("WARNING: PAWAPAY_API_TOKEN not set: aggregator calls will be rejected")
	}
	return pawapay.New(cfg.PawaPayBaseURL, cfg.PawaPayAPIToken, cfg.PawaPayCountry, cfg.PawaPayTimeout())
}
