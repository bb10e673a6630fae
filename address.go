package lnaddr

import (
	"fmt"
	"strings"
)

// LightningAddress is the parsed form of a <username>@<domain> identifier.
type LightningAddress struct {
	Username string
	Domain   string
}

// ParseAddress parses an identifier of the form <username>@<domain>. The
// identifier must contain exactly one '@' and both sides must be non-empty.
func ParseAddress(identifier string) (*LightningAddress, error) {
	parts := strings.Split(identifier, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: %q, expected the form "+
			"<username>@<domain>", ErrInvalidAddress, identifier)
	}

	return &LightningAddress{
		Username: parts[0],
		Domain:   parts[1],
	}, nil
}

func (a *LightningAddress) String() string {
	return a.Username + "@" + a.Domain
}

// DiscoveryURLs holds the well-known endpoints under an address's domain.
type DiscoveryURLs struct {
	Lnurlp  string
	Keysend string
	Nostr   string
}

// DiscoveryURLs derives the well-known discovery endpoints for the address.
// secure selects https; http is only appropriate for local testing.
func (a *LightningAddress) DiscoveryURLs(secure bool) DiscoveryURLs {
	protocol := "https"
	if !secure {
		protocol = "http"
	}

	return DiscoveryURLs{
		Lnurlp: fmt.Sprintf(
			"%s://%s/.well-known/lnurlp/%s", protocol, a.Domain,
			a.Username,
		),
		Keysend: fmt.Sprintf(
			"%s://%s/.well-known/keysend/%s", protocol, a.Domain,
			a.Username,
		),
		Nostr: fmt.Sprintf(
			"%s://%s/.well-known/nostr.json?name=%s", protocol,
			a.Domain, a.Username,
		),
	}
}
