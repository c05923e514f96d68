package httperr

import "errors"

// Domain failure codes surfaced by the booking core.
const (
	CodeIneligibleDate     = "ineligible_date"
	CodeFrequencyViolation = "frequency_violation"
	CodeSlotTaken          = "slot_taken"
	CodeInvalidSlot        = "invalid_slot"
	CodeNotFound           = "not_found"
	CodeStorageUnavailable = "storage_unavailable"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extracts the code from a business error, or "" for any other error.
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
