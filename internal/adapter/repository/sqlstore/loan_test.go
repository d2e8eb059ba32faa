package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "estack-backend/internal/domain/loan"
	"estack-backend/pkg/id"

	"gorm.io/gorm"
)

func TestLoan_CreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "user-1")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.UserID != "user-1" || got.Status != loanDomain.StatusPending {
		t.Errorf("unexpected loan: %+v", got)
	}
	if !got.Amount.Equal(dec("1000")) || !got.Interest.Equal(dec("100")) {
		t.Errorf("amounts not round-tripped: amount=%s interest=%s", got.Amount, got.Interest)
	}
}

func TestLoan_SaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(id.NewID32(), "user-2")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l.Status = loanDomain.StatusApproved
	l.ApproverID = "admin-1"
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanIDForUpdate(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
	if got.Status != loanDomain.StatusApproved || got.ApproverID != "admin-1" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestLoan_GetByLoanID_NotFound(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	_, err := repo.GetByLoanID(context.Background(), id.NewID32())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestLoan_DuplicateLoanIDRejected(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	loanID := id.NewID32()
	if err := repo.Create(ctx, makeLoan(loanID, "user-3")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeLoan(loanID, "user-4")); err == nil {
		t.Fatalf("expected unique violation on loan_id")
	}
}

func TestLoan_GetPendingLoanByUserID_LatestWins(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	user := "user-5"

	older := makeLoan(id.NewID32(), user)
	older.StateUpdatedAt = time.Now().UTC().Add(-time.Hour)
	newer := makeLoan(id.NewID32(), user)
	approved := makeLoan(id.NewID32(), user)
	approved.Status = loanDomain.StatusApproved
	for _, l := range []*loanDomain.Loan{older, newer, approved} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.GetPendingLoanByUserID(ctx, user)
	if err != nil {
		t.Fatalf("GetPendingLoanByUserID: %v", err)
	}
	if got.LoanID != newer.LoanID {
		t.Fatalf("got %s, want newest pending %s", got.LoanID, newer.LoanID)
	}

	if _, err := repo.GetPendingLoanByUserID(ctx, "nobody"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound for unknown user, got %v", err)
	}
}

func TestLoan_ListByUserID(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, makeLoan(id.NewID32(), "user-6")); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, makeLoan(id.NewID32(), "someone-else")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByUserID(ctx, "user-6")
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID < got[2].ID {
		t.Fatalf("expected newest first, got ids %d..%d", got[0].ID, got[2].ID)
	}
}

func TestLoan_OnePendingSlotPerBorrower(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()
	user := "user-7"

	first := makeLoan(id.NewID32(), user)
	first.PendingUserID = &user
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := makeLoan(id.NewID32(), user)
	second.PendingUserID = &user
	if err := repo.Create(ctx, second); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second pending loan: want ErrDuplicatedKey, got %v", err)
	}

	if err := first.Transition(loanDomain.StatusRejected, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	third := makeLoan(id.NewID32(), user)
	third.PendingUserID = &user
	if err := repo.Create(ctx, third); err != nil {
		t.Fatalf("pending slot should be free after the decision: %v", err)
	}
}
