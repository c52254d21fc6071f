package service

import "errors"

var (
	ErrGameNotFound      = errors.New("game session not found")
	ErrInvalidGameStatus = errors.New("invalid game status")
	ErrValidation        = errors.New("invalid request")
	ErrStoreUnavailable  = errors.New("session store unavailable")
	ErrSerialization     = errors.New("session payload could not be decoded")
	ErrRandomSource      = errors.New("random number source unavailable")
)
