package forgewatch

import "errors"

var (
	// ErrMissingAddress is returned when watch options lack a contract address.
	ErrMissingAddress = errors.New("forgewatch: contract address is required")

	// ErrInvalidAddress is returned when a contract address is not valid SS58.
	ErrInvalidAddress = errors.New("forgewatch: invalid contract address")

	// ErrMissingNetwork is returned when watch options lack a network name.
	ErrMissingNetwork = errors.New("forgewatch: network is required")
)
