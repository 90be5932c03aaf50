// Package datasync tells interested parties when a kind of clinic record may
// have changed, either because a write just happened or because the shared
// polling interval elapsed.
package datasync

import (
	"fmt"

	"carepoint.io/care-assistant/internal/apperrors"
)

// DataType names a family of records that subscribers re-fetch together.
type DataType string

const (
	Patients     DataType = "patients"
	Doctors      DataType = "doctors"
	Appointments DataType = "appointments"
)

// AllDataTypes is the enumeration order used by Refresh with no arguments.
var AllDataTypes = []DataType{Patients, Doctors, Appointments}

func (d DataType) String() string { return string(d) }

func (d DataType) Valid() bool {
	for _, dt := range AllDataTypes {
		if d == dt {
			return true
		}
	}
	return false
}

// ParseDataType accepts the lowercase names used in URLs.
func ParseDataType(s string) (DataType, error) {
	dt := DataType(s)
	if !dt.Valid() {
		return "", fmt.Errorf("%w: unknown data type %q", apperrors.ErrValidation, s)
	}
	return dt, nil
}
