package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrFileTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrInvalidDocument        = errors.New("document could not be read")
	ErrUploadFailed           = errors.New("file upload to storage failed")
	ErrExtractionNotFound     = errors.New("extraction not found")
	ErrExtractionNotCompleted = errors.New("extraction has not completed")
	ErrExtractionNotRetryable = errors.New("only failed extractions can be retried")
	ErrImportProcessNotFound  = errors.New("import process not found")
	ErrDuplicateImportRef     = errors.New("import process reference already exists")
	ErrUnknownSection         = errors.New("unknown structured result section")
	ErrInvalidSectionData     = errors.New("section data does not match expected shape")
	ErrSectionNotExportable   = errors.New("section is not a list and cannot be exported")
	ErrInvalidExportFormat    = errors.New("unsupported export format")
	ErrMissingDocumentType    = errors.New("document type is required")
	ErrSectionMissing         = errors.New("section is not present in the extraction result")
	ErrMissingReference       = errors.New("import process reference is required")
	ErrSectionNotAllowed      = errors.New("section is not produced for this document type")
)
