package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// DocumentType identifies an import paperwork kind. It selects both the step
// catalog and the assembly policy. Unrecognized values are allowed and run
// through the generic single-step catalog.
type DocumentType string

const (
	DocumentTypePackingList       DocumentType = "packing_list"
	DocumentTypeCommercialInvoice DocumentType = "commercial_invoice"
	DocumentTypeProformaInvoice   DocumentType = "proforma_invoice"
	DocumentTypeSwift             DocumentType = "swift"
	DocumentTypeDI                DocumentType = "di"
	DocumentTypeNumerario         DocumentType = "numerario"
	DocumentTypeNotaFiscal        DocumentType = "nota_fiscal"
)

// KnownDocumentTypes lists the document types with a specialized catalog, in display order.
var KnownDocumentTypes = []DocumentType{
	DocumentTypeProformaInvoice,
	DocumentTypeCommercialInvoice,
	DocumentTypePackingList,
	DocumentTypeSwift,
	DocumentTypeDI,
	DocumentTypeNumerario,
	DocumentTypeNotaFiscal,
}

// IsKnown reports whether t has a specialized step catalog.
func (t DocumentType) IsKnown() bool {
	for _, k := range KnownDocumentTypes {
		if k == t {
			return true
		}
	}
	return false
}

// SectionName names a slot of the structured result.
type SectionName string

const (
	SectionHeader                 SectionName = "header"
	SectionItems                  SectionName = "items"
	SectionContainers             SectionName = "containers"
	SectionTaxInfo                SectionName = "taxInfo"
	SectionDIInfo                 SectionName = "diInfo"
	SectionDispositionExplanation SectionName = "dispositionExplanation"
)

// Shape is the JSON shape a section's data must have.
type Shape string

const (
	ShapeObject Shape = "object"
	ShapeArray  Shape = "array"
	ShapeText   Shape = "text"
)

// SectionShapes maps every recognized section to the shape its data holds.
var SectionShapes = map[SectionName]Shape{
	SectionHeader:                 ShapeObject,
	SectionDIInfo:                 ShapeObject,
	SectionItems:                  ShapeArray,
	SectionContainers:             ShapeArray,
	SectionTaxInfo:                ShapeArray,
	SectionDispositionExplanation: ShapeText,
}

// ExtractionStatus represents the lifecycle of an extraction run.
type ExtractionStatus string

const (
	ExtractionStatusQueued     ExtractionStatus = "queued"
	ExtractionStatusProcessing ExtractionStatus = "processing"
	ExtractionStatusCompleted  ExtractionStatus = "completed"
	ExtractionStatusFailed     ExtractionStatus = "failed"
)

// ImportProcessStatus represents the lifecycle of an import process.
type ImportProcessStatus string

const (
	ImportProcessStatusOpen   ImportProcessStatus = "open"
	ImportProcessStatusClosed ImportProcessStatus = "closed"
)

// ExportFormat is a supported section export format.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)
