package shopping

import "fmt"

// ValidationError reports missing or empty caller input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// UpstreamFormatError reports completion text that is not a product object
type UpstreamFormatError struct {
	Raw string
	Err error
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("unreadable completion reply: %v", e.Err)
}

func (e *UpstreamFormatError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a failed call to the completion service
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
