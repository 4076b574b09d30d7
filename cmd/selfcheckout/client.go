package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub000/circulation/dashboard"
)

const requestTimeout = 10 * time.Second

var json = jsoniter.ConfigFastest

type checkoutPayload struct {
	BookID       string `json:"book_id"`
	CopyID       string `json:"copy_id,omitempty"`
	BorrowerID   string `json:"borrower_id"`
	BorrowerName string `json:"borrower_name"`
	DueDate      string `json:"due_date"`
}

type checkinPayload struct {
	LoanID     string `json:"loan_id,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

type dashboardEnvelope struct {
	circulation.Result
	Data dashboard.Summary `json:"data"`
}

// portalClient talks to the portal's HTTP API on behalf of the kiosk.
type portalClient struct {
	baseURL   string
	actorID   string
	actorRole string
	http      *http.Client
}

func newPortalClient(baseURL string, actorID string, actorRole string) *portalClient {
	return &portalClient{
		baseURL:   baseURL,
		actorID:   actorID,
		actorRole: actorRole,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

func (c *portalClient) checkout(ctx context.Context, payload checkoutPayload) (circulation.Result, error) {
	return c.postForResult(ctx, "/api/checkouts", payload)
}

func (c *portalClient) checkin(ctx context.Context, payload checkinPayload) (circulation.Result, error) {
	return c.postForResult(ctx, "/api/checkins", payload)
}

func (c *portalClient) dashboard(ctx context.Context) (dashboard.Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/dashboard", nil)
	if err != nil {
		return dashboard.Summary{}, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("portal unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope dashboardEnvelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil {
		return dashboard.Summary{}, decodeErr
	}

	if envelope.Status != circulation.StatusSuccess {
		return dashboard.Summary{}, errors.New(envelope.Message)
	}

	return envelope.Data, nil
}

// postForResult sends the payload and decodes the result envelope. A non-2xx
// response is not an error at this level: the portal explains the outcome in
// the result message, which the kiosk shows as-is.
func (c *portalClient) postForResult(ctx context.Context, path string, payload any) (circulation.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return circulation.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return circulation.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return circulation.Result{}, fmt.Errorf("portal unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result circulation.Result
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return circulation.Result{}, decodeErr
	}

	return result, nil
}

func (c *portalClient) setHeaders(req *http.Request) {
	req.Header.Set("X-Actor-ID", c.actorID)
	req.Header.Set("X-Actor-Role", c.actorRole)
}

func printResult(cmd *cobra.Command, result circulation.Result) error {
	if result.Status == circulation.StatusSuccess {
		cmd.Println(result.Message)
		return nil
	}

	return errors.New(result.Message)
}
