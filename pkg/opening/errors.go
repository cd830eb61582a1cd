package opening

import (
	"errors"
	"fmt"
)

// Batch-level errors. These abort the whole batch before any mutation;
// everything else is absorbed per record.
var (
	// ErrInvalidInput means there is no writable target document, or the
	// target is itself a template document.
	ErrInvalidInput = errors.New("no writable target document")

	// ErrUserCancelled means an interactive step was aborted before the
	// batch started. It produces a neutral, non-error batch result.
	ErrUserCancelled = errors.New("cancelled")
)

// MissingTemplateError reports that the catalog has no entry for a
// required template key. Fatal to the record, not to the batch.
type MissingTemplateError struct {
	Key TemplateKey
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("no template for %s/%s/%s",
		e.Key.Host, e.Key.Shape, e.Key.Category)
}
