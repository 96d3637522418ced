package questionbank

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrQuestionNotFound indicates a question was not found
	ErrQuestionNotFound = errors.New("question not found")

	// ErrAssetNotFound indicates an asset id matched no store. Dangling
	// references are expected; callers treat this as a result, not a failure.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrBlobNotFound indicates a backing file was absent from blob storage
	ErrBlobNotFound = errors.New("blob not found")

	// ErrDepthExceeded indicates nested fragment hydration hit the recursion
	// ceiling. The offending occurrence degrades to unresolved.
	ErrDepthExceeded = errors.New("hydration depth exceeded")
)

// QuestionError represents an error related to question operations
type QuestionError struct {
	QuestionID string
	Op         string
	Err        error
}

func (e *QuestionError) Error() string {
	return fmt.Sprintf("question operation %s failed for question %s: %v", e.Op, e.QuestionID, e.Err)
}

func (e *QuestionError) Unwrap() error {
	return e.Err
}

// AssetError represents an error related to asset operations
type AssetError struct {
	AssetID string
	Kind    AssetKind
	Op      string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for %s asset %s: %v", e.Op, e.Kind, e.AssetID, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
