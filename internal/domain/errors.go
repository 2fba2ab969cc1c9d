package domain

import "errors"

var (
	// ErrNoValidMessage is returned when an update carries no text or no chat to reply to
	ErrNoValidMessage = errors.New("no valid message received")

	// ErrNoItems is returned when no line of the message parsed into an item
	ErrNoItems = errors.New("no grocery items parsed")

	// ErrReformatFailed is returned when the text generator fails or returns nothing
	ErrReformatFailed = errors.New("reformat request failed")

	// ErrPersistenceFailure is returned when the grocery list cannot be written
	ErrPersistenceFailure = errors.New("failed to persist grocery list")

	// ErrNotificationFailure is returned when a chat reply cannot be delivered
	ErrNotificationFailure = errors.New("failed to send chat message")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
