package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned when an analysis is requested before any dataset
// has been uploaded.
var ErrNoData = errors.New("no data loaded: please upload CSV files first")

// NotFoundError indicates a persisted table file is absent from the data
// directory, i.e. nothing has been uploaded for that kind yet.
type NotFoundError struct {
	Kind Kind
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s data uploaded: please upload a %s CSV file", e.Kind, e.Kind)
}

// ValidationError indicates an uploaded table is missing required columns.
type ValidationError struct {
	Kind      Kind
	Missing   []string
	Available []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s CSV validation failed: missing required columns [%s], available columns [%s]",
		e.Kind, strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// DuplicateIDError indicates the product master contains repeated product ids,
// which would make the COGS join ambiguous.
type DuplicateIDError struct {
	Kind Kind
	IDs  []string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s CSV contains duplicate product_id values [%s]: deduplicate and re-upload",
		e.Kind, strings.Join(e.IDs, ", "))
}
