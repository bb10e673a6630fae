package lnaddr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultFundingTimeout = 15 * time.Second

// PhoenixdClient issues invoices against a phoenixd node over its REST API.
// It implements FundingSource for exactly one operator identity.
type PhoenixdClient struct {
	baseURL  string
	apiKey   string
	operator string
	client   *http.Client
}

func NewPhoenixdClient(baseURL, apiKey, operator string) *PhoenixdClient {
	return &PhoenixdClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		operator: operator,
		client: &http.Client{
			Timeout: defaultFundingTimeout,
		},
	}
}

type createInvoiceRequest struct {
	AmountSat   int64  `json:"amount_sat"`
	Description string `json:"description"`
}

type createInvoiceResponse struct {
	Serialized string `json:"serialized"`
}

// CreateInvoice implements FundingSource. Any 2xx response with a serialized
// invoice in the body is a success; everything else is a funding failure.
func (p *PhoenixdClient) CreateInvoice(ctx context.Context, owner string,
	amountSats int64, description string) (string, error) {

	if owner != p.operator {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOwner, owner)
	}

	body, err := json.Marshal(&createInvoiceRequest{
		AmountSat:   amountSats,
		Description: description,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, p.baseURL+"/createinvoice",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFundingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: node returned status %d",
			ErrFundingUnavailable, resp.StatusCode)
	}

	var invoice createInvoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&invoice); err != nil {
		return "", fmt.Errorf("%w: decoding node response: %v",
			ErrFundingUnavailable, err)
	}

	return invoice.Serialized, nil
}
