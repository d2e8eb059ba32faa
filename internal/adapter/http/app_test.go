package http

import (
	"testing"
	"time"

	"estack-backend/internal/adapter/repository/sqlstore"
	"estack-backend/internal/testutil/gatewaymock"
	"estack-backend/internal/usecase/deposit"
	"estack-backend/internal/usecase/loan"
	"estack-backend/internal/usecase/notification"
	"estack-backend/internal/usecase/payout"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testApp wires every handler to an in-memory sqlite store and a mock gateway.
type testApp struct {
	e  *echo.Echo
	db *gorm.DB
	gw *gatewaymock.Gateway
	h  Handlers
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := sqlstore.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var (
		txs     = sqlstore.NewTransactionRepository(db)
		loans   = sqlstore.NewLoanRepository(db)
		payouts = sqlstore.NewPayoutRepository(db)
		notes   = sqlstore.NewNotificationRepository(db)
		events  = sqlstore.NewCallbackRepository(db)
		tx      = sqlstore.NewGormUoW(db)
		gw      = gatewaymock.Accepting()
	)
	notifier := notification.NewUsecase(notes)
	depUC := deposit.NewUsecase(txs, tx, gw, notifier)
	payUC := payout.NewUsecase(payouts, loans, tx, gw, notifier)
	loanUC := loan.NewUsecase(loans, tx, gw, notifier)

	app := &testApp{
		e:  newEchoWithValidator(),
		db: db,
		gw: gw,
		h: Handlers{
			Root:          NewHandler(),
			Deposits:      NewDepositHandler(depUC),
			Callbacks:     NewCallbackHandler(depUC, payUC, events),
			Loans:         NewLoanHandler(loanUC),
			Payouts:       NewPayoutHandler(payUC),
			Notifications: NewNotificationHandler(notifier),
		},
	}
	return app
}

// tomorrow is a valid expected_return_date for loan requests.
func tomorrow() string { return time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02") }
