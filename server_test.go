package lnaddr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, funding FundingSource) (*Server,
	*httptest.Server) {

	t.Helper()

	cfg := testConfig()
	cfg.NostrPubkey = "deadbeef"

	flow := newTestFlow(cfg, funding)
	server := NewServer(cfg, flow, testLog)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return server, ts
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))

	return resp.StatusCode
}

func TestServerDiscovery(t *testing.T) {
	_, ts := newTestServer(t, &fakeFunding{})

	for _, path := range []string{
		"/lnurlp/alice",
		"/.well-known/lnurlp/alice",
	} {
		var resp PayResponse
		code := getJSON(t, ts.URL+path, &resp)
		require.Equal(t, http.StatusOK, code)

		require.Equal(
			t, "https://example.com/lnurlp/alice/callback",
			resp.Callback,
		)
		require.EqualValues(t, 1000, resp.MinSendable)
		require.EqualValues(t, 1_000_000_000, resp.MaxSendable)
		require.Equal(t, TypePayRequest, resp.Tag)
	}
}

func TestServerDiscoveryEncoded(t *testing.T) {
	_, ts := newTestServer(t, &fakeFunding{})

	var resp EncodedResponse
	code := getJSON(t, ts.URL+"/lnurlp/alice?encode=true", &resp)
	require.Equal(t, http.StatusOK, code)
	require.True(t, strings.HasPrefix(resp.Ln, "LNURL1"))

	decoded, err := DecodeURL(resp.Ln)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/lnurlp/alice", decoded)
}

func TestServerDiscoveryUnknownUser(t *testing.T) {
	_, ts := newTestServer(t, &fakeFunding{})

	var resp Error
	code := getJSON(t, ts.URL+"/lnurlp/nobody", &resp)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "ERROR", resp.Status)
	require.NotEmpty(t, resp.Reason)
}

func TestServerCallback(t *testing.T) {
	funding := &fakeFunding{invoice: "lnbc1fakeinvoice"}
	_, ts := newTestServer(t, funding)

	var resp InvoiceResponse
	code := getJSON(
		t, ts.URL+"/lnurlp/alice/callback?amount=500", &resp,
	)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "lnbc1fakeinvoice", resp.PayRequest)
	require.Empty(t, resp.Routes)

	// 500 msat rounds up to a single sat.
	require.EqualValues(t, 1, funding.lastAmount)
	require.Equal(t, "alice", funding.lastOwner)
}

func TestServerCallbackBadAmount(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing", ""},
		{"empty", "?amount="},
		{"non numeric", "?amount=abc"},
		{"negative", "?amount=-1"},
		{"zero", "?amount=0"},
		{"out of bounds", "?amount=1000000001000"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			funding := &fakeFunding{invoice: "lnbc1fakeinvoice"}
			_, ts := newTestServer(t, funding)

			var resp Error
			code := getJSON(
				t, ts.URL+"/lnurlp/alice/callback"+test.query,
				&resp,
			)
			require.Equal(t, http.StatusBadRequest, code)
			require.Equal(t, "ERROR", resp.Status)
			require.Zero(t, funding.calls)
		})
	}
}

func TestServerCallbackUnknownUser(t *testing.T) {
	funding := &fakeFunding{invoice: "lnbc1fakeinvoice"}
	_, ts := newTestServer(t, funding)

	var resp Error
	code := getJSON(
		t, ts.URL+"/lnurlp/nobody/callback?amount=1000", &resp,
	)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "ERROR", resp.Status)
	require.Zero(t, funding.calls)
}

func TestServerCallbackFundingFailure(t *testing.T) {
	funding := &fakeFunding{err: ErrFundingUnavailable}
	_, ts := newTestServer(t, funding)

	var resp Error
	code := getJSON(
		t, ts.URL+"/lnurlp/alice/callback?amount=1000", &resp,
	)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "ERROR", resp.Status)

	// Discovery for the same user must be unaffected.
	var pay PayResponse
	code = getJSON(t, ts.URL+"/lnurlp/alice", &pay)
	require.Equal(t, http.StatusOK, code)
}

func TestServerHealth(t *testing.T) {
	_, ts := newTestServer(t, &fakeFunding{})

	var resp map[string]string
	code := getJSON(t, ts.URL+"/health", &resp)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "healthy", resp["status"])

	code = getJSON(t, ts.URL+"/", &resp)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, resp["message"])
}

func TestServerNostr(t *testing.T) {
	_, ts := newTestServer(t, &fakeFunding{})

	var resp struct {
		Names map[string]string `json:"names"`
	}
	code := getJSON(
		t, ts.URL+"/.well-known/nostr.json?name=alice", &resp,
	)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "deadbeef", resp.Names["alice"])

	code = getJSON(t, ts.URL+"/.well-known/nostr.json?name=bob", &resp)
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, resp.Names["bob"])
}
