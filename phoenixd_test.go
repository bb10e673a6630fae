package lnaddr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhoenixdCreateInvoice(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/createinvoice", r.URL.Path)

			_, apiKey, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "secret", apiKey)

			var req createInvoiceRequest
			require.NoError(
				t, json.NewDecoder(r.Body).Decode(&req),
			)
			require.EqualValues(t, 21, req.AmountSat)
			require.NotEmpty(t, req.Description)

			err := json.NewEncoder(w).Encode(
				&createInvoiceResponse{
					Serialized: "lnbc1fakeinvoice",
				},
			)
			require.NoError(t, err)
		},
	))
	defer node.Close()

	client := NewPhoenixdClient(node.URL, "secret", "alice")

	invoice, err := client.CreateInvoice(
		context.Background(), "alice", 21, "Payment to ln address "+
			"for alice",
	)
	require.NoError(t, err)
	require.Equal(t, "lnbc1fakeinvoice", invoice)
}

func TestPhoenixdUnsupportedOwner(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected for a foreign owner")
		},
	))
	defer node.Close()

	client := NewPhoenixdClient(node.URL, "secret", "alice")

	_, err := client.CreateInvoice(context.Background(), "bob", 21, "")
	require.ErrorIs(t, err, ErrUnsupportedOwner)
}

func TestPhoenixdNodeRejection(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		},
	))
	defer node.Close()

	client := NewPhoenixdClient(node.URL, "secret", "alice")

	_, err := client.CreateInvoice(context.Background(), "alice", 21, "")
	require.ErrorIs(t, err, ErrFundingUnavailable)
}

func TestPhoenixdNodeUnreachable(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {},
	))
	node.Close()

	client := NewPhoenixdClient(node.URL, "secret", "alice")

	_, err := client.CreateInvoice(context.Background(), "alice", 21, "")
	require.ErrorIs(t, err, ErrFundingUnavailable)
}
