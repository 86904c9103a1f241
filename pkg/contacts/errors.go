package contacts

import "errors"

var (
	// ErrValidation is returned when a name, phone number or birthday is malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an edit targets something that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for arguments outside their allowed range, such as a page size
	// below one.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptData is returned when persisted address book data cannot be read or decoded.
	ErrCorruptData = errors.New("corrupt data")
)
