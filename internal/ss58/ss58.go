// Package ss58 implements decoding and checksum verification of SS58-encoded
// account addresses, the address format used by GLIN networks.
package ss58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

// checksumPreimage is prepended to the address body before hashing.
var checksumPreimage = []byte("SS58PRE")

var (
	// ErrLength is returned when the decoded address has an unexpected length.
	ErrLength = errors.New("ss58: invalid address length")

	// ErrChecksum is returned when the address checksum does not match.
	ErrChecksum = errors.New("ss58: checksum mismatch")
)

// Decode parses an SS58 address and verifies its checksum.
// It returns the network prefix and the 32-byte public key.
func Decode(addr string) (prefix uint16, pubkey []byte, err error) {
	raw := base58.Decode(addr)
	if len(raw) == 0 {
		return 0, nil, fmt.Errorf("ss58: %q is not valid base58", addr)
	}

	var prefixLen int
	switch {
	case raw[0] < 64:
		prefixLen = 1
		prefix = uint16(raw[0])
	case raw[0] < 128:
		// Two-byte prefix: 14 bits split across both bytes.
		prefixLen = 2
		if len(raw) < 2 {
			return 0, nil, ErrLength
		}
		lower := (raw[0] << 2) | (raw[1] >> 6)
		upper := raw[1] & 0x3f
		prefix = uint16(lower) | uint16(upper)<<8
	default:
		return 0, nil, fmt.Errorf("ss58: reserved address type %d", raw[0])
	}

	if len(raw) != prefixLen+32+2 {
		return 0, nil, ErrLength
	}

	body := raw[:len(raw)-2]
	want := raw[len(raw)-2:]

	h, err := blake2b.New512(nil)
	if err != nil {
		return 0, nil, err
	}
	h.Write(checksumPreimage)
	h.Write(body)
	if sum := h.Sum(nil); !bytes.Equal(sum[:2], want) {
		return 0, nil, ErrChecksum
	}

	return prefix, body[prefixLen:], nil
}

// Validate reports whether addr is a well-formed SS58 account address
// with a valid checksum.
func Validate(addr string) error {
	_, _, err := Decode(addr)
	return err
}
