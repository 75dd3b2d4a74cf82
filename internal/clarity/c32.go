package clarity

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Address versions accepted for standard principals.
const (
	VersionMainnetSingleSig byte = 22
	VersionMainnetMultiSig  byte = 20
	VersionTestnetSingleSig byte = 26
	VersionTestnetMultiSig  byte = 21
)

// ErrInvalidAddress is returned for malformed or badly checksummed addresses.
var ErrInvalidAddress = errors.New("invalid stacks address")

var c32Normalizer = strings.NewReplacer("O", "0", "L", "1", "I", "1")

func c32Encode(data []byte) string {
	n := new(big.Int).SetBytes(data)
	var out []byte
	base := big.NewInt(32)
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, c32Alphabet[mod.Int64()])
	}
	for _, b := range data {
		if b != 0 {
			break
		}
		out = append(out, c32Alphabet[0])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func c32Decode(s string) ([]byte, error) {
	s = c32Normalizer.Replace(strings.ToUpper(s))
	n := new(big.Int)
	base := big.NewInt(32)
	zeros := 0
	leading := true
	for _, r := range s {
		idx := strings.IndexRune(c32Alphabet, r)
		if idx < 0 {
			return nil, fmt.Errorf("%w: bad character %q", ErrInvalidAddress, r)
		}
		if leading && idx == 0 {
			zeros++
			continue
		}
		leading = false
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(idx)))
	}
	return append(make([]byte, zeros), n.Bytes()...), nil
}

func c32Checksum(version byte, payload []byte) []byte {
	first := sha256.Sum256(append([]byte{version}, payload...))
	second := sha256.Sum256(first[:])
	return second[:4]
}

// EncodeAddress renders a version byte and hash160 as a c32check address.
func EncodeAddress(version byte, hash160 []byte) (string, error) {
	if version >= 32 {
		return "", fmt.Errorf("%w: version %d out of range", ErrInvalidAddress, version)
	}
	if len(hash160) != 20 {
		return "", fmt.Errorf("%w: hash160 must be 20 bytes, got %d", ErrInvalidAddress, len(hash160))
	}
	payload := append(append([]byte{}, hash160...), c32Checksum(version, hash160)...)
	return "S" + string(c32Alphabet[version]) + c32Encode(payload), nil
}

// DecodeAddress parses a c32check address into its version and hash160.
func DecodeAddress(addr string) (byte, []byte, error) {
	if len(addr) < 3 || addr[0] != 'S' {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	v := strings.IndexByte(c32Alphabet, c32Normalizer.Replace(strings.ToUpper(addr[1:2]))[0])
	if v < 0 {
		return 0, nil, fmt.Errorf("%w: bad version in %q", ErrInvalidAddress, addr)
	}
	version := byte(v)
	raw, err := c32Decode(addr[2:])
	if err != nil {
		return 0, nil, err
	}
	if len(raw) != 24 {
		return 0, nil, fmt.Errorf("%w: decoded length %d", ErrInvalidAddress, len(raw))
	}
	hash160, sum := raw[:20], raw[20:]
	if !bytes.Equal(sum, c32Checksum(version, hash160)) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}
	return version, hash160, nil
}
