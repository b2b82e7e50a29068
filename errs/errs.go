// Package errs defines the sentinel errors shared by the elisa packages.
//
// Errors returned by the engine wrap one of these sentinels with context, so
// callers classify failures with errors.Is:
//
//	reg, err := regression.Fit(plate)
//	if errors.Is(err, errs.ErrNotEnoughStandards) {
//	    // ask the user to assign more standards
//	}
package errs

import "errors"

// Plate validation errors. They are mutually exclusive; the first failure found
// during validation is the one reported.
var (
	// ErrUnassignedValue reports a used well without a measurement.
	ErrUnassignedValue = errors.New("sample has no value")
	// ErrInvalidValue reports a used well whose measurement is NaN or infinite.
	ErrInvalidValue = errors.New("sample has an invalid value")
	// ErrGroupOutOfRange reports a standard or unknown well whose group index
	// does not address an entry of the corresponding group list.
	ErrGroupOutOfRange = errors.New("sample group index out of range")
	// ErrUnassignedConcentration reports a referenced standard group without a concentration.
	ErrUnassignedConcentration = errors.New("standard has no concentration")
	// ErrInvalidConcentration reports a referenced standard group whose concentration is NaN or infinite.
	ErrInvalidConcentration = errors.New("standard has an invalid concentration")
	// ErrNotEnoughStandards reports fewer than four standard groups with data.
	ErrNotEnoughStandards = errors.New("not enough standards for four parameter analysis")
	// ErrControlTooBig reports a control mean greater than the weakest standard response.
	ErrControlTooBig = errors.New("control is greater than a standard measurement")
	// ErrBlankTooBig reports a blank mean greater than the weakest standard response.
	ErrBlankTooBig = errors.New("blank is greater than a standard measurement")
)

// Plate construction errors.
var (
	ErrNilPlate         = errors.New("plate is nil")
	ErrInvalidPlateSize = errors.New("invalid plate size")
	ErrWellOutOfRange   = errors.New("well position out of range")
	ErrSampleCount      = errors.New("sample count does not match plate size")
	ErrInvalidRole      = errors.New("invalid sample role")
)

// Measurement import errors.
var (
	ErrGridTooWide   = errors.New("grid has more entries than the plate is wide")
	ErrGridTooTall   = errors.New("grid has more rows than the plate is high")
	ErrSheetTooSmall = errors.New("sheet size is too small")
	ErrNoDimensions  = errors.New("could not parse table dimensions")
	ErrSheetNotFound = errors.New("sheet not found")
)

// Plate file errors.
var (
	ErrInvalidHeaderSize   = errors.New("invalid plate file header size")
	ErrInvalidMagic        = errors.New("not a plate file")
	ErrUnsupportedVersion  = errors.New("unsupported plate file version")
	ErrChecksumMismatch    = errors.New("plate file checksum mismatch")
	ErrPayloadSizeMismatch = errors.New("plate file payload size mismatch")
	ErrPayloadTooLarge     = errors.New("plate file payload too large")
	ErrInvalidCompression  = errors.New("invalid compression type")
)
