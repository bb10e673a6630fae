package lnaddr

type PayResponse struct {
	// Callback is the URL from LN SERVICE which will accept the pay request
	// parameters
	Callback string `json:"callback"`

	// MaxSendable is the max amount, in millisatoshi, LN SERVICE is
	// willing to receive
	MaxSendable int64 `json:"maxSendable"`

	// MinSendable is the min amount, in millisatoshi, LN SERVICE is
	// willing to receive, can not be less than 1 or more than `maxSendable`
	MinSendable int64 `json:"minSendable"`

	// Metadata json which must be presented as raw string here, this is
	// required to pass signature verification at a later step.
	Metadata string `json:"metadata"`

	// Type of LNURL
	Tag Type `json:"tag"`
}

type InvoiceResponse struct {
	// PayRequest is a bech32-serialized lightning invoice.
	PayRequest string `json:"pr"`

	// Routes is always empty. Route hints are not supported.
	Routes []string `json:"routes"`
}

// EncodedResponse carries the bech32 encoded LNURL form of a discovery
// endpoint.
type EncodedResponse struct {
	Ln string `json:"ln"`
}

type Type string

const TypePayRequest Type = "payRequest"

type Error struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

const errorStatus = "ERROR"

// NewError builds the uniform LNURL error envelope that both endpoints
// return on any rejection.
func NewError(reason string) *Error {
	return &Error{
		Status: errorStatus,
		Reason: reason,
	}
}
