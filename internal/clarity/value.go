// Package clarity encodes Clarity contract-call arguments in the consensus
// serialization used by Stacks wallets.
package clarity

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Type is the one-byte Clarity type prefix.
type Type byte

const (
	TypeUInt              Type = 0x01
	TypeBoolTrue          Type = 0x03
	TypeBoolFalse         Type = 0x04
	TypePrincipalStandard Type = 0x05
	TypePrincipalContract Type = 0x06
	TypeStringASCII       Type = 0x0d
)

const maxContractNameLen = 128

// Value is a serializable Clarity value.
type Value interface {
	Type() Type
	Serialize() []byte
	String() string
}

// Hex returns the 0x-prefixed hex serialization of v.
func Hex(v Value) string {
	return "0x" + hex.EncodeToString(v.Serialize())
}

// UIntValue is a Clarity uint (u128). Values above 2^64-1 are not produced by
// this application.
type UIntValue uint64

// UInt returns a Clarity uint.
func UInt(n uint64) UIntValue { return UIntValue(n) }

func (v UIntValue) Type() Type { return TypeUInt }

func (v UIntValue) Serialize() []byte {
	out := make([]byte, 17)
	out[0] = byte(TypeUInt)
	binary.BigEndian.PutUint64(out[9:], uint64(v))
	return out
}

func (v UIntValue) String() string { return fmt.Sprintf("u%d", uint64(v)) }

// BoolValue is a Clarity bool.
type BoolValue bool

// Bool returns a Clarity bool.
func Bool(b bool) BoolValue { return BoolValue(b) }

func (v BoolValue) Type() Type {
	if v {
		return TypeBoolTrue
	}
	return TypeBoolFalse
}

func (v BoolValue) Serialize() []byte { return []byte{byte(v.Type())} }

func (v BoolValue) String() string {
	if v {
		return "true"
	}
	return "false"
}

// StringASCIIValue is a Clarity string-ascii.
type StringASCIIValue string

// StringASCII returns a Clarity string-ascii, rejecting non-ASCII input.
func StringASCII(s string) (StringASCIIValue, error) {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return "", fmt.Errorf("string-ascii: non-ascii byte 0x%02x at %d", s[i], i)
		}
	}
	return StringASCIIValue(s), nil
}

func (v StringASCIIValue) Type() Type { return TypeStringASCII }

func (v StringASCIIValue) Serialize() []byte {
	out := make([]byte, 5, 5+len(v))
	out[0] = byte(TypeStringASCII)
	binary.BigEndian.PutUint32(out[1:], uint32(len(v)))
	return append(out, v...)
}

func (v StringASCIIValue) String() string { return fmt.Sprintf("%q", string(v)) }

// PrincipalValue is a standard or contract principal.
type PrincipalValue struct {
	Version      byte
	Hash160      [20]byte
	ContractName string
	address      string
}

// Principal parses "ADDR" or "ADDR.contract-name".
func Principal(s string) (PrincipalValue, error) {
	addr, name, isContract := strings.Cut(s, ".")
	if isContract && (name == "" || len(name) > maxContractNameLen) {
		return PrincipalValue{}, fmt.Errorf("%w: bad contract name in %q", ErrInvalidAddress, s)
	}
	version, hash, err := DecodeAddress(addr)
	if err != nil {
		return PrincipalValue{}, err
	}
	switch version {
	case VersionMainnetSingleSig, VersionMainnetMultiSig, VersionTestnetSingleSig, VersionTestnetMultiSig:
	default:
		return PrincipalValue{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidAddress, version)
	}
	// Re-encode so lowercase or ambiguous-letter input renders canonically.
	canonical, err := EncodeAddress(version, hash)
	if err != nil {
		return PrincipalValue{}, err
	}
	if isContract {
		canonical += "." + name
	}
	p := PrincipalValue{Version: version, ContractName: name, address: canonical}
	copy(p.Hash160[:], hash)
	return p, nil
}

func (v PrincipalValue) Type() Type {
	if v.ContractName != "" {
		return TypePrincipalContract
	}
	return TypePrincipalStandard
}

func (v PrincipalValue) Serialize() []byte {
	out := make([]byte, 0, 23+len(v.ContractName))
	out = append(out, byte(v.Type()), v.Version)
	out = append(out, v.Hash160[:]...)
	if v.ContractName != "" {
		out = append(out, byte(len(v.ContractName)))
		out = append(out, v.ContractName...)
	}
	return out
}

func (v PrincipalValue) String() string { return "'" + v.address }
