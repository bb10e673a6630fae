package lnaddr

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nbd-wtf/go-nostr/nip05"
)

// rejectReason is the single client-facing rejection message. Internal error
// distinctions are logged but never surfaced; wallets only ever see the
// generic envelope.
const rejectReason = "could not process request. please try again with " +
	"valid parameters"

type Server struct {
	cfg    *Config
	flow   *PayFlow
	log    *slog.Logger
	router chi.Router
}

func NewServer(cfg *Config, flow *PayFlow, log *slog.Logger) *Server {
	s := &Server{
		cfg:  cfg,
		flow: flow,
		log:  log,
	}

	r := chi.NewRouter()
	r.Get("/", s.home)
	r.Get("/health", s.health)
	r.Get("/lnurlp/{username}", s.lnurlp)
	r.Get("/lnurlp/{username}/callback", s.invoice)
	r.Get("/.well-known/lnurlp/{username}", s.lnurlp)
	r.Get("/.well-known/nostr.json", s.nostr)
	s.router = r

	return s
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run announces the operator's lightning address and serves until the
// listener fails.
func (s *Server) Run(addr string) error {
	encoded, err := EncodeURL(s.flow.DiscoveryURL(s.cfg.Operator))
	if err != nil {
		return err
	}

	lnAddress := &LightningAddress{
		Username: s.cfg.Operator,
		Domain:   s.cfg.Domain,
	}

	s.log.Info("serving lightning address",
		"address", lnAddress.String(),
		"lnurl", encoded,
		"listen", addr,
	)

	return http.ListenAndServe(addr, s.router)
}

func (s *Server) home(w http.ResponseWriter, _ *http.Request) {
	s.replyJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Node Remote API",
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.replyJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// lnurlp serves LUD-16 discovery, on both /lnurlp/{username} and the
// protocol-mandated /.well-known/lnurlp/{username} alias. With the encode
// query flag set it instead returns the bech32 LNURL form of the discovery
// endpoint.
func (s *Server) lnurlp(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	resp, err := s.flow.PayMetadata(username)
	if err != nil {
		s.reject(w)
		return
	}

	if r.URL.Query().Get("encode") != "" {
		encoded, err := EncodeURL(s.flow.DiscoveryURL(username))
		if err != nil {
			s.reject(w)
			return
		}

		s.replyJSON(w, http.StatusOK, &EncodedResponse{Ln: encoded})
		return
	}

	s.replyJSON(w, http.StatusOK, resp)
}

// invoice serves the LUD-06 callback. The amount query parameter must parse
// as a positive integer number of millisatoshis; a missing or malformed
// amount is rejected the same way an out-of-bounds one is.
func (s *Server) invoice(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	amount := r.URL.Query().Get("amount")
	milliSats, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || milliSats <= 0 {
		s.log.Info("callback with unusable amount",
			"username", username, "amount", amount)
		s.reject(w)
		return
	}

	resp, err := s.flow.RequestInvoice(r.Context(), username, milliSats)
	if err != nil {
		s.reject(w)
		return
	}

	s.replyJSON(w, http.StatusOK, resp)
}

// nostr serves the NIP-05 mapping for the operator when a nostr pubkey is
// configured. Unknown names get an empty mapping rather than an error, per
// convention.
func (s *Server) nostr(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	resp := nip05.WellKnownResponse{
		Names:  map[string]string{},
		Relays: map[string][]string{},
	}

	if s.cfg.NostrPubkey != "" && name == s.cfg.Operator {
		resp.Names[name] = s.cfg.NostrPubkey
	}

	s.replyJSON(w, http.StatusOK, resp)
}

func (s *Server) replyJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to write response", "err", err)
	}
}

func (s *Server) reject(w http.ResponseWriter) {
	s.replyJSON(w, http.StatusBadRequest, NewError(rejectReason))
}
