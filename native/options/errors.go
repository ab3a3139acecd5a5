package options

import "errors"

var (
	ErrInvalidQuantity    = errors.New("options: quantity must be between 1 and 20")
	ErrInvalidPremium     = errors.New("options: premium must be greater than 0")
	ErrStringTooLong      = errors.New("options: string exceeds maximum length")
	ErrInvalidRoyalty     = errors.New("options: venue royalty cannot exceed 50%")
	ErrExpiryInPast       = errors.New("options: expiry timestamp must be in the future")
	ErrNotActive          = errors.New("options: option is not in active status")
	ErrUnauthorizedHolder = errors.New("options: only the option holder can exercise")
	ErrOptionExpired      = errors.New("options: option has expired")
	ErrNotExpiredYet      = errors.New("options: option has not expired yet")
	ErrOptionExists       = errors.New("options: option already exists")
	ErrOptionNotFound     = errors.New("options: option not found")
	ErrAddressMismatch    = errors.New("options: stored id does not derive the requested address")
	ErrInsufficientFunds  = errors.New("options: insufficient funds")
	ErrInvalidStatus      = errors.New("options: invalid status")
)
