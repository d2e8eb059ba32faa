package pawapay

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/callback"
)

// ParseCallback decodes a pushed status update. kind may be empty, in which
// case it is inferred from the id field present (legacy transaction ids are
// deposits).
func ParseCallback(kind callback.Kind, raw []byte) (*aggregator.Update, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, aggregator.ErrInvalidPayload
	}
	var b statusBody
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return nil, aggregator.ErrInvalidPayload
	}

	if kind == "" {
		kind = callback.KindDeposit
		if b.PayoutID != "" && b.DepositID == "" {
			kind = callback.KindPayout
		}
	}

	var missing []string
	switch kind {
	case callback.KindPayout:
		if b.PayoutID == "" {
			missing = append(missing, "payoutId")
		}
	default:
		if b.depositID() == "" {
			missing = append(missing, "depositId")
		}
	}
	if strings.TrimSpace(b.Status) == "" {
		missing = append(missing, "status")
	}
	if b.legacy() {
		if !b.Amount.Valid {
			missing = append(missing, "amount")
		}
		if strings.TrimSpace(b.Currency) == "" {
			missing = append(missing, "currency")
		}
	}
	if len(missing) > 0 {
		return nil, &aggregator.MissingFieldsError{Fields: missing}
	}

	u := b.update(kind)
	u.Raw = append([]byte(nil), trimmed...)
	return &u, nil
}

// legacy reports the flat transaction_id shape, which must carry its own
// amount and currency.
func (b statusBody) legacy() bool {
	return b.DepositID == "" && b.TransactionID == "" && b.PayoutID == "" && b.TransactionIDSnake != ""
}

func (b statusBody) depositID() string {
	for _, id := range []string{b.DepositID, b.TransactionID, b.TransactionIDSnake} {
		if id != "" {
			return id
		}
	}
	return ""
}

func (b statusBody) update(kind callback.Kind) aggregator.Update {
	u := aggregator.Update{
		Kind:                  kind,
		Status:                strings.ToUpper(strings.TrimSpace(b.Status)),
		Currency:              b.Currency,
		Provider:              b.Correspondent,
		ProviderTransactionID: providerTxID(b.CorrespondentIDs),
	}
	if kind == callback.KindPayout {
		u.ID = b.PayoutID
	} else {
		u.ID = b.depositID()
	}
	switch {
	case b.DepositedAmount.Valid:
		u.Amount = b.DepositedAmount.Decimal
	case b.RequestedAmount.Valid:
		u.Amount = b.RequestedAmount.Decimal
	case b.Amount.Valid:
		u.Amount = b.Amount.Decimal
	}
	if p := b.Payer; p != nil {
		u.PhoneNumber = p.Address.Value
	}
	if p := b.Recipient; p != nil && u.PhoneNumber == "" {
		u.PhoneNumber = p.Address.Value
	}
	if f := b.FailureReason; f != nil {
		u.FailureCode = f.FailureCode
		u.FailureMessage = f.FailureMessage
	}
	if m := bytes.TrimSpace(b.Metadata); len(m) > 0 && !bytes.Equal(m, []byte("null")) {
		u.Metadata = append([]byte(nil), m...)
	}
	return u
}

// providerTxID picks the operator's final reference when several ids are
// reported, else the first by key order.
func providerTxID(ids map[string]string) string {
	if len(ids) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(strings.ToUpper(k), "FINAL") {
			return ids[k]
		}
	}
	return ids[keys[0]]
}
