package domain

import "errors"

var (
	// ErrEmptyProfile rejects a profile with no fields (input error).
	ErrEmptyProfile = errors.New("profile contains no fields")

	// ErrMalformedStats rejects internally inconsistent field statistics
	// (input error). Always wrapped with the offending field name.
	ErrMalformedStats = errors.New("malformed field statistics")

	// ErrFieldNotFound signals an explicit primary-key override naming a
	// field that is not in the profile (configuration error).
	ErrFieldNotFound = errors.New("field not found in profile")

	// ErrHintNotFound signals that none of the declared unique-field hints
	// exist in the profile (configuration error). Failing here is
	// deliberate: a stale hint list means the profile and the dataset
	// declaration have drifted apart.
	ErrHintNotFound = errors.New("no declared unique hint found in profile")

	// ErrNoPrimaryKey signals that no rule could determine a primary key
	// and the caller did not opt into heuristic detection (ambiguity error).
	ErrNoPrimaryKey = errors.New("no primary key determinable")
)
