package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `json:"loan_id" validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{LoanID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{LoanID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "loan_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestMSISDNValidation(t *testing.T) {
	type P struct {
		Phone string `json:"phone_number" validate:"msisdn"`
	}
	cv := NewValidator()

	for _, s := range []string{"260763456789", "233241234", "123456789012345"} {
		if err := cv.Validate(P{Phone: s}); err != nil {
			t.Fatalf("expected msisdn OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "12345678", "1234567890123456", "+260763456789", "2607634 6789"} {
		err := cv.Validate(P{Phone: s})
		if err == nil {
			t.Fatalf("expected msisdn error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "phone_number", "9 to 15 digits") {
			t.Fatalf("unexpected details for %q: %+v", s, fe)
		}
	}
}

func TestDecimalValidation(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"amount" validate:"dgt0,dec2"`
	}
	cv := NewValidator()

	for _, s := range []string{"1", "0.01", "1500.5", "99999999.99"} {
		if err := cv.Validate(P{Amount: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("expected OK for %s, got %v", s, err)
		}
	}

	tests := []struct {
		in   string
		want string
	}{
		{"0", "greater than zero"},
		{"-5", "greater than zero"},
		{"1.234", "at most 2 decimal places"},
	}
	for _, tt := range tests {
		err := cv.Validate(P{Amount: decimal.RequireFromString(tt.in)})
		if err == nil {
			t.Fatalf("expected error for %s", tt.in)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "amount", tt.want) {
			t.Fatalf("%s: want %q, got %+v", tt.in, tt.want, fe)
		}
	}

	// zero value counts as missing
	if err := cv.Validate(P{}); err == nil {
		t.Fatalf("expected error for zero value")
	}
}

func TestRateValidation(t *testing.T) {
	type P struct {
		Rate decimal.Decimal `json:"interest_rate" validate:"rate"`
	}
	cv := NewValidator()

	for _, s := range []string{"0", "0.125", "1"} {
		if err := cv.Validate(P{Rate: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("expected OK for %s, got %v", s, err)
		}
	}
	for _, s := range []string{"-0.01", "1.01", "12"} {
		err := cv.Validate(P{Rate: decimal.RequireFromString(s)})
		if fe := ToFieldErrors(err); err == nil || !containsFieldMsg(fe, "interest_rate", "between 0 and 1") {
			t.Fatalf("%s: unexpected result %v", s, err)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name     string `json:"name" validate:"required"`
		Min      int    `json:"min" validate:"gte=10"`
		Max      int    `json:"max" validate:"lte=5"`
		Currency string `json:"currency" validate:"iso4217"`
		ID       string `json:"id" validate:"uuid"`
		Date     string `json:"date" validate:"datetime=2006-01-02"`
		Untagged string `validate:"required"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{Name: "", Min: 9, Max: 6, Currency: "zmw", ID: "nope", Date: "01/02/2025"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	checks := []struct{ field, msg string }{
		{"name", "is required"},
		{"min", "greater than or equal to 10"},
		{"max", "less than or equal to 5"},
		{"currency", "ISO-4217"},
		{"id", "must be a UUID"},
		{"date", "YYYY-MM-DD"},
		{"Untagged", "is required"},
	}
	for _, c := range checks {
		if !containsFieldMsg(fe, c.field, c.msg) {
			t.Fatalf("missing %q for %s: %+v", c.msg, c.field, fe)
		}
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
