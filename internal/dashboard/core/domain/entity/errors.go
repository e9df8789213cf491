package entity

import "errors"

var (
	// ErrInvalidRequest marks a missing or malformed required field.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidAmount marks a non-positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAccountNotOnboarded is returned by the platform when a login link is
	// requested for an account that has not finished onboarding.
	ErrAccountNotOnboarded = errors.New("account not yet fully onboarded")
	// ErrPaymentNotSucceeded is returned when transfers require a succeeded
	// payment intent and the intent is in another state.
	ErrPaymentNotSucceeded = errors.New("payment intent has not succeeded")
)
