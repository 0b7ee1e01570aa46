package validation

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// addressHexLength is the length of a 20 byte EVM address without the 0x prefix.
	addressHexLength = 40
	// txHashHexLength is the length of a 32 byte transaction hash without the 0x prefix.
	txHashHexLength = 64
)

// ValidateAddress validates an EVM address: 0x prefix followed by 40 hex characters.
// Checksum casing is not enforced, addresses are compared case-insensitively.
func ValidateAddress(addr string) error {
	return validateHex("address", addr, addressHexLength)
}

// ValidateTxHash validates a transaction hash: 0x prefix followed by 64 hex characters.
func ValidateTxHash(hash string) error {
	return validateHex("transaction hash", hash, txHashHexLength)
}

func validateHex(what, value string, length int) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		return fmt.Errorf("%s must be 0x-prefixed", what)
	}

	normalized := value[2:]
	if len(normalized) != length {
		return fmt.Errorf("invalid %s length: expected %d characters (without 0x), got %d", what, length, len(normalized))
	}

	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid hex %s: %w", what, err)
	}

	return nil
}

// NormalizeAddress converts an address to lowercase with a 0x prefix.
func NormalizeAddress(addr string) string {
	addr = strings.TrimPrefix(addr, "0x")
	addr = strings.TrimPrefix(addr, "0X")
	return "0x" + strings.ToLower(addr)
}

// ValidateAndNormalizeAddress validates an address and returns its normalized form
func ValidateAndNormalizeAddress(addr string) (string, error) {
	if err := ValidateAddress(addr); err != nil {
		return "", err
	}
	return NormalizeAddress(addr), nil
}

// SameAddress reports whether two hex addresses are equal ignoring case and prefix.
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}
