package markdown

import "fmt"

// BadInputError is returned when Convert is given input that cannot be
// treated as text (a decoding failure, or a caller passing something other
// than a string/[]byte through the language binding).
type BadInputError struct {
	Reason string
}

func (e *BadInputError) Error() string {
	return fmt.Sprintf("markdown: bad input: %s", e.Reason)
}

// BadOutputFormatError is returned when a caller requests an output format
// that has not been registered in OutputFormats.
type BadOutputFormatError struct {
	Format string
}

func (e *BadOutputFormatError) Error() string {
	return fmt.Sprintf("markdown: unknown output format %q", e.Format)
}

// ExtensionLoadError is returned when an extension identifier cannot be
// resolved to a registered Extension.
type ExtensionLoadError struct {
	Name   string
	Reason string
}

func (e *ExtensionLoadError) Error() string {
	return fmt.Sprintf("markdown: load extension %q: %s", e.Name, e.Reason)
}

// NotFoundError is returned by strict-mode Registry lookups for a name that
// is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("markdown: no item registered under name %q", e.Name)
}

// MalformedSourceError describes a recoverable parsing anomaly. It is never
// returned from Convert (the parser always recovers by treating the
// offending content as plain text), and nothing in this package constructs
// or logs one.
type MalformedSourceError struct {
	Detail string
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("markdown: malformed source: %s", e.Detail)
}
