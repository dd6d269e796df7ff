package shortener

import "errors"

var (
	// ErrUnknownOwner is returned when an operation references an owner that was never registered.
	ErrUnknownOwner = errors.New("owner does not exist")
	// ErrNotOwned is returned when the caller does not own the code, or the code does not exist.
	ErrNotOwned = errors.New("code is not owned by caller")
	// ErrInactive is returned when resolving an expired, exhausted or absent code.
	ErrInactive = errors.New("code is expired, exhausted or unknown")

	// ErrNotFound is returned by a Repository when no entry holds the code.
	ErrNotFound = errors.New("code not found")
	// ErrCodeTaken is returned by a Repository insert when the code already exists.
	ErrCodeTaken = errors.New("code already in use")
	// ErrCodeSpaceExhausted means every generation attempt collided with a live code.
	ErrCodeSpaceExhausted = errors.New("could not generate a free code")
)
