package clarity

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAddress_KnownVector(t *testing.T) {
	hash, err := hex.DecodeString(readmeHash)
	require.NoError(t, err)

	addr, err := EncodeAddress(VersionMainnetSingleSig, hash)
	require.NoError(t, err)
	assert.Equal(t, "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7", addr)
}

func TestDecodeAddress_RoundTrip(t *testing.T) {
	hashes := []string{
		readmeHash,
		"0000000000000000000000000000000000000001",
		"00ff00ff00ff00ff00ff00ff00ff00ff00ff00ff",
		"ffffffffffffffffffffffffffffffffffffffff",
	}
	versions := []byte{VersionMainnetSingleSig, VersionMainnetMultiSig, VersionTestnetSingleSig, VersionTestnetMultiSig}

	for _, h := range hashes {
		for _, v := range versions {
			hash, err := hex.DecodeString(h)
			require.NoError(t, err)

			addr, err := EncodeAddress(v, hash)
			require.NoError(t, err)

			gotVersion, gotHash, err := DecodeAddress(addr)
			require.NoError(t, err, addr)
			assert.Equal(t, v, gotVersion)
			assert.Equal(t, hash, gotHash)
		}
	}
}

func TestDecodeAddress_NormalizesAmbiguousCharacters(t *testing.T) {
	hash, err := hex.DecodeString(readmeHash)
	require.NoError(t, err)
	addr, err := EncodeAddress(VersionMainnetSingleSig, hash)
	require.NoError(t, err)

	_, got, err := DecodeAddress("S" + "p" + addr[2:])
	require.NoError(t, err)
	assert.Equal(t, hash, got)
}

func TestEncodeAddress_Invalid(t *testing.T) {
	_, err := EncodeAddress(32, make([]byte, 20))
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = EncodeAddress(VersionMainnetSingleSig, make([]byte, 19))
	require.ErrorIs(t, err, ErrInvalidAddress)
}
