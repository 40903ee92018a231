package persist

import (
	"errors"

	"github.com/modelvault/modelvault/manifest"
)

var (
	// ErrAlreadyExists reports a save to a path that already holds data
	// while the writer is not in overwrite mode.
	ErrAlreadyExists = errors.New("persist: already exists")

	// ErrNotFound reports a load from a path holding no saved data.
	ErrNotFound = errors.New("persist: not found")

	// ErrClassMismatch reports a manifest whose class differs from the
	// one the reader expects.
	ErrClassMismatch = errors.New("persist: class mismatch")

	// ErrUnknownField reports a manifest field the component does not
	// declare.
	ErrUnknownField = errors.New("persist: unknown field")

	// ErrFieldDecode reports a declared field whose stored text the
	// codec could not decode.
	ErrFieldDecode = errors.New("persist: field decode failed")

	// ErrUnknownClass reports a class name with no registered factory,
	// or a save of a type that was never registered.
	ErrUnknownClass = errors.New("persist: unknown class")
)

// ErrMalformedMetadata aliases the manifest parse sentinel so callers
// can match structural manifest failures without importing the
// manifest package.
var ErrMalformedMetadata = manifest.ErrMalformed
