// Package core holds the domain types and the monthly summary logic.
//
// This file contains the Amount type, a monetary value that tolerates
// both JSON number and JSON string encodings in stored documents.
package core

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value. Stored ledgers may encode amounts either
// as numbers (42.5) or as strings ("42.5"); both decode to the same
// Amount. A value that cannot be read as a number decodes to NaN so the
// record itself survives loading; consumers that need arithmetic
// (summary, export) reject NaN amounts explicitly.
type Amount float64

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = Amount(math.NaN())
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			*a = Amount(math.NaN())
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = Amount(math.NaN())
		return nil
	}
	*a = Amount(f)
	return nil
}

// MarshalJSON writes the amount as a compact JSON number. NaN (an
// unreadable stored amount) is written back as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(a)) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// Float returns the amount as a float64.
func (a Amount) Float() float64 {
	return float64(a)
}

// Validate rejects amounts that are missing, unreadable, or not positive.
func (a Amount) Validate() error {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
