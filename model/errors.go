package model

import "fmt"

// DataFormatError reports a source file that could not be decoded with
// either the primary or the fallback text encoding.
type DataFormatError struct {
	File string
	Err  error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("undecodable source file %s: %v", e.File, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// SchemaError reports a required column missing from a source file.
type SchemaError struct {
	File   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("file %s is missing required column %q", e.File, e.Column)
}

// DimensionMismatchError reports an embedding whose dimension disagrees
// with the dimension fixed at build time.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension %d does not match index dimension %d", e.Got, e.Want)
}

// InvalidInputError reports input there is nothing to do with, such as
// an empty query or empty document text.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// NotFoundError reports a point lookup miss.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %s not found", e.ID)
}
