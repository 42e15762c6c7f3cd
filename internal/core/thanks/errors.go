package thanks

import "errors"

var (
	ErrInvalidSender    = errors.New("thanks: invalid sender")
	ErrInvalidRecipient = errors.New("thanks: invalid recipient")
	ErrInvalidPeriod    = errors.New("thanks: invalid period")
	ErrInvalidDateRange = errors.New("thanks: invalid date range")
	ErrInvalidMonthKey  = errors.New("thanks: invalid month key")
	ErrInvalidDirection = errors.New("thanks: invalid direction")
	ErrThanksNotFound   = errors.New("thanks: not found")
)
