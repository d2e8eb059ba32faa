package pawapay

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type address struct {
	Value string `json:"value"`
}

type party struct {
	Type    string  `json:"type"`
	Address address `json:"address"`
}

func msisdn(phone string) party { return party{Type: "MSISDN", Address: address{Value: phone}} }

type depositRequest struct {
	DepositID            string `json:"depositId"`
	Amount               string `json:"amount"`
	Currency             string `json:"currency"`
	Country              string `json:"country,omitempty"`
	Correspondent        string `json:"correspondent"`
	Payer                party  `json:"payer"`
	CustomerTimestamp    string `json:"customerTimestamp"`
	StatementDescription string `json:"statementDescription"`
}

type payoutRequest struct {
	PayoutID             string `json:"payoutId"`
	Amount               string `json:"amount"`
	Currency             string `json:"currency"`
	Country              string `json:"country,omitempty"`
	Correspondent        string `json:"correspondent"`
	Recipient            party  `json:"recipient"`
	CustomerTimestamp    string `json:"customerTimestamp"`
	StatementDescription string `json:"statementDescription"`
}

type rejectionReason struct {
	RejectionCode    string `json:"rejectionCode"`
	RejectionMessage string `json:"rejectionMessage"`
}

type initiationResponse struct {
	DepositID       string           `json:"depositId,omitempty"`
	PayoutID        string           `json:"payoutId,omitempty"`
	Status          string           `json:"status"`
	RejectionReason *rejectionReason `json:"rejectionReason,omitempty"`
}

type failureReason struct {
	FailureCode    string `json:"failureCode"`
	FailureMessage string `json:"failureMessage"`
}

// statusBody covers deposit and payout resources, callbacks included, and
// the id spellings used by older integrations.
type statusBody struct {
	DepositID          string              `json:"depositId"`
	PayoutID           string              `json:"payoutId"`
	TransactionID      string              `json:"transactionId"`
	TransactionIDSnake string              `json:"transaction_id"`
	Status             string              `json:"status"`
	DepositedAmount    decimal.NullDecimal `json:"depositedAmount"`
	RequestedAmount    decimal.NullDecimal `json:"requestedAmount"`
	Amount             decimal.NullDecimal `json:"amount"`
	Currency           string              `json:"currency"`
	Correspondent      string              `json:"correspondent"`
	Payer              *party              `json:"payer"`
	Recipient          *party              `json:"recipient"`
	CorrespondentIDs   map[string]string   `json:"correspondentIds"`
	FailureReason      *failureReason      `json:"failureReason"`
	Metadata           json.RawMessage     `json:"metadata"`
}
