package services

import (
	"fmt"
	"strings"
)

// ConfigError is fatal to a run and is raised before any matching begins.
type ConfigError struct {
	Setting string
	Detail  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Setting, e.Detail)
}

// MissingInputError names the specific dataset element a run could not do
// without. Fatal; no partial side effects happen before it is raised.
type MissingInputError struct {
	Dataset string
	Element string
	Cause   error
}

func (e *MissingInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("missing required input: dataset %q element %q: %v", e.Dataset, e.Element, e.Cause)
	}
	return fmt.Sprintf("missing required input: dataset %q element %q", e.Dataset, e.Element)
}

func (e *MissingInputError) Unwrap() error { return e.Cause }

// DuplicateBatchError rejects an entire append batch: at least one candidate
// identity key already exists in the log for the batch date. Keys lists
// every offending key so the operator can investigate and re-run; zero rows
// were written.
type DuplicateBatchError struct {
	Date string
	Keys []string
}

func (e *DuplicateBatchError) Error() string {
	return fmt.Sprintf("append batch rejected for %s: %d duplicate key(s): %s",
		e.Date, len(e.Keys), strings.Join(e.Keys, ", "))
}

// MalformedSubmissionError discards a single pace submission without
// aborting aggregation for other vans or checkpoints.
type MalformedSubmissionError struct {
	VanID  string
	Field  string
	Detail string
}

func (e *MalformedSubmissionError) Error() string {
	return fmt.Sprintf("malformed pace submission for van %q: %s: %s", e.VanID, e.Field, e.Detail)
}
