package regression

import (
	"errors"

	"github.com/arloliu/elisa/errs"
)

// ValidationKind classifies why a plate could not be fitted.
type ValidationKind uint8

const (
	// KindNone means no error.
	KindNone ValidationKind = iota
	KindUnassignedValue
	KindInvalidValue
	KindGroupOutOfRange
	KindUnassignedConcentration
	KindInvalidConcentration
	KindNotEnoughStandards
	KindControlTooBig
	KindBlankTooBig
	// KindOther is any error that is not a plate validation failure.
	KindOther
)

var kindSentinels = []struct {
	kind ValidationKind
	err  error
}{
	{KindUnassignedValue, errs.ErrUnassignedValue},
	{KindInvalidValue, errs.ErrInvalidValue},
	{KindGroupOutOfRange, errs.ErrGroupOutOfRange},
	{KindUnassignedConcentration, errs.ErrUnassignedConcentration},
	{KindInvalidConcentration, errs.ErrInvalidConcentration},
	{KindNotEnoughStandards, errs.ErrNotEnoughStandards},
	{KindControlTooBig, errs.ErrControlTooBig},
	{KindBlankTooBig, errs.ErrBlankTooBig},
}

// Kind maps an error returned by Fit or Aggregate to its ValidationKind.
func Kind(err error) ValidationKind {
	if err == nil {
		return KindNone
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}

	return KindOther
}

// String returns the kind's identifier, as used in API responses.
func (k ValidationKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnassignedValue:
		return "unassigned_value"
	case KindInvalidValue:
		return "invalid_value"
	case KindGroupOutOfRange:
		return "group_out_of_range"
	case KindUnassignedConcentration:
		return "unassigned_concentration"
	case KindInvalidConcentration:
		return "invalid_concentration"
	case KindNotEnoughStandards:
		return "not_enough_standards"
	case KindControlTooBig:
		return "control_too_big"
	case KindBlankTooBig:
		return "blank_too_big"
	default:
		return "other"
	}
}

// Message returns the sentence shown to an operator in place of a curve.
func (k ValidationKind) Message() string {
	switch k {
	case KindNone:
		return ""
	case KindUnassignedValue:
		return "Microplate has a sample without a value."
	case KindInvalidValue:
		return "Microplate has a sample with an invalid value."
	case KindGroupOutOfRange:
		return "Microplate has a sample assigned to a group that does not exist."
	case KindUnassignedConcentration:
		return "Microplate has a standard without a concentration."
	case KindInvalidConcentration:
		return "Microplate has a standard with an invalid concentration."
	case KindNotEnoughStandards:
		return "Microplate needs at least 4 standards for a four parameter analysis."
	case KindControlTooBig:
		return "Control is greater than a standard measurement."
	case KindBlankTooBig:
		return "Blank is greater than a standard measurement."
	default:
		return "Microplate could not be analyzed."
	}
}
