package pawapay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"estack-backend/internal/domain/aggregator"
	"estack-backend/internal/domain/callback"
)

const maxStatementLen = 22

var reStatement = regexp.MustCompile(`[^A-Za-z0-9 ]+`)

// Client talks to a PawaPay-compatible merchant API with bearer auth.
type Client struct {
	baseURL string
	token   string
	country string
	http    *http.Client
	now     func() time.Time
}

func New(baseURL, token, country string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		country: country,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

func (c *Client) InitiateDeposit(ctx context.Context, req aggregator.DepositRequest) (*aggregator.InitiationResult, error) {
	body := depositRequest{
		DepositID:            req.DepositID,
		Amount:               req.Amount.String(),
		Currency:             req.Currency,
		Country:              c.country,
		Correspondent:        req.Provider,
		Payer:                msisdn(req.PhoneNumber),
		CustomerTimestamp:    c.now().UTC().Format(time.RFC3339),
		StatementDescription: statement(req.Description, "Estack deposit"),
	}
	var out initiationResponse
	if err := c.do(ctx, http.MethodPost, "/deposits", body, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}

func (c *Client) InitiatePayout(ctx context.Context, req aggregator.PayoutRequest) (*aggregator.InitiationResult, error) {
	body := payoutRequest{
		PayoutID:             req.PayoutID,
		Amount:               req.Amount.String(),
		Currency:             req.Currency,
		Country:              c.country,
		Correspondent:        req.Provider,
		Recipient:            msisdn(req.PhoneNumber),
		CustomerTimestamp:    c.now().UTC().Format(time.RFC3339),
		StatementDescription: statement(req.Description, "Estack loan"),
	}
	var out initiationResponse
	if err := c.do(ctx, http.MethodPost, "/payouts", body, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}

func (c *Client) DepositStatus(ctx context.Context, depositID string) (*aggregator.Update, error) {
	return c.status(ctx, callback.KindDeposit, "/deposits/"+url.PathEscape(depositID))
}

func (c *Client) PayoutStatus(ctx context.Context, payoutID string) (*aggregator.Update, error) {
	return c.status(ctx, callback.KindPayout, "/payouts/"+url.PathEscape(payoutID))
}

// status reads the array the API returns for a resource lookup; an empty
// array means the id is unknown.
func (c *Client) status(ctx context.Context, kind callback.Kind, path string) (*aggregator.Update, error) {
	var out []statusBody
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	u := out[0].update(kind)
	return &u, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", aggregator.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("pawapay: %s %s -> %d: %s", method, path, resp.StatusCode, raw)
		return fmt.Errorf("%w: %s %s returned %d", aggregator.ErrUnavailable, method, path, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", aggregator.ErrUnavailable, method, path, err)
	}
	return nil
}

func (r initiationResponse) result() *aggregator.InitiationResult {
	res := &aggregator.InitiationResult{Status: strings.ToUpper(r.Status)}
	if r.RejectionReason != nil {
		res.RejectionCode = r.RejectionReason.RejectionCode
		res.RejectionMessage = r.RejectionReason.RejectionMessage
	}
	return res
}

// statement keeps the characters the API accepts and caps the length.
func statement(desc, fallback string) string {
	s := strings.TrimSpace(reStatement.ReplaceAllString(desc, ""))
	if len(s) < 4 {
		s = fallback
	}
	if len(s) > maxStatementLen {
		s = strings.TrimSpace(s[:maxStatementLen])
	}
	return s
}
