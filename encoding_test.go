package lnaddr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeURL(t *testing.T) {
	// Discovery URLs routinely exceed the 90 character bech32 limit, so
	// decoding must use the limitless variant.
	url := "https://some.rather.long.lightning.address.domain.example." +
		"com/.well-known/lnurlp/someusername"

	encoded, err := EncodeURL(url)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "LNURL1"))

	decoded, err := DecodeURL(encoded)
	require.NoError(t, err)
	require.Equal(t, url, decoded)
}

func TestDecodeURLWrongHRP(t *testing.T) {
	// A valid bech32 string with a non-lnurl human readable part.
	_, err := DecodeURL("bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4")
	require.Error(t, err)
}

func TestDecodeURLNotBech32(t *testing.T) {
	_, err := DecodeURL("not a bech32 string")
	require.Error(t, err)
}
