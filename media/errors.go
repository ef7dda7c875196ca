package media

import "errors"

var (
	// ErrExtraction means the extraction tool gave nothing usable: no metadata, or no files.
	ErrExtraction = errors.New("media extraction failed")
	// ErrDataIntegrity means the metadata document violated the shape we rely on.
	ErrDataIntegrity = errors.New("metadata integrity error")
	// ErrVideoPathNotFound is a data integrity error for a document with no usable video descriptor.
	ErrVideoPathNotFound = &dataIntegrityError{msg: "video filepath not found"}
	// ErrContractViolation indicates a caller bug, such as an unsupported media type.
	ErrContractViolation = errors.New("contract violation")
)

type dataIntegrityError struct {
	msg string
}

func (e *dataIntegrityError) Error() string {
	return e.msg
}

func (e *dataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}
