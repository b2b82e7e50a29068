package format

import "strings"

type (
	SampleRole      uint8
	CompressionType uint8
)

const (
	RoleUnused   SampleRole = 0x0 // RoleUnused marks an empty well; it is ignored by every computation.
	RoleBlank    SampleRole = 0x1 // RoleBlank marks background signal with zero analyte.
	RoleControl  SampleRole = 0x2 // RoleControl marks a nominal zero-dose well.
	RoleStandard SampleRole = 0x3 // RoleStandard marks a calibration well of known concentration.
	RoleUnknown  SampleRole = 0x4 // RoleUnknown marks a well whose concentration is estimated.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Roles lists every sample role in display order.
var Roles = []SampleRole{RoleUnused, RoleBlank, RoleControl, RoleStandard, RoleUnknown}

func (r SampleRole) String() string {
	switch r {
	case RoleUnused:
		return "Unused"
	case RoleBlank:
		return "Blank"
	case RoleControl:
		return "Control"
	case RoleStandard:
		return "Standard"
	case RoleUnknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// Grouped reports whether wells of this role address a group list.
func (r SampleRole) Grouped() bool {
	return r == RoleStandard || r == RoleUnknown
}

// Valid reports whether r is one of the defined roles.
func (r SampleRole) Valid() bool {
	return r <= RoleUnknown
}

// ParseSampleRole returns the role for a case-sensitive role name.
func ParseSampleRole(name string) (SampleRole, bool) {
	for _, r := range Roles {
		if r.String() == name {
			return r, true
		}
	}

	return RoleUnused, false
}

// MarshalText encodes the role by name so saved plates stay readable.
func (r SampleRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name produced by MarshalText.
func (r *SampleRole) UnmarshalText(text []byte) error {
	role, ok := ParseSampleRole(string(text))
	if !ok {
		return &UnknownRoleError{Name: string(text)}
	}
	*r = role

	return nil
}

// UnknownRoleError reports a role name that does not match any SampleRole.
type UnknownRoleError struct {
	Name string
}

func (e *UnknownRoleError) Error() string {
	return "unknown sample role: " + e.Name
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a lower or mixed case name ("zstd", "s2", "lz4",
// "none") to its CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	for _, c := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		if strings.EqualFold(c.String(), name) {
			return c, true
		}
	}

	return 0, false
}

