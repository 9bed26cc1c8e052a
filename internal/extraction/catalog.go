package extraction

import (
	"fmt"

	"tradedocs/internal/domain"
)

// Catalog maps document types to their ordered prompt steps.
type Catalog struct {
	steps    map[domain.DocumentType][]domain.PromptStep
	fallback []domain.PromptStep
}

// NewCatalog returns the built-in catalog for every known document type.
func NewCatalog() *Catalog {
	c, err := NewCatalogFrom(defaultSteps(), genericSteps())
	if err != nil {
		panic(fmt.Sprintf("extraction: invalid built-in catalog: %v", err))
	}
	return c
}

// NewCatalogFrom builds a catalog from explicit step lists. Every list, including
// the fallback, must be non-empty and numbered 1..n without gaps.
func NewCatalogFrom(steps map[domain.DocumentType][]domain.PromptStep, fallback []domain.PromptStep) (*Catalog, error) {
	if err := checkContiguous(fallback); err != nil {
		return nil, fmt.Errorf("fallback catalog: %w", err)
	}
	copied := make(map[domain.DocumentType][]domain.PromptStep, len(steps))
	for docType, list := range steps {
		if err := checkContiguous(list); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", docType, err)
		}
		copied[docType] = append([]domain.PromptStep(nil), list...)
	}
	return &Catalog{
		steps:    copied,
		fallback: append([]domain.PromptStep(nil), fallback...),
	}, nil
}

// Steps returns the ordered steps for docType. Unmapped types get the generic
// single-step catalog instead of an error. The returned slice is a copy.
func (c *Catalog) Steps(docType domain.DocumentType) []domain.PromptStep {
	list, ok := c.steps[docType]
	if !ok {
		list = c.fallback
	}
	return append([]domain.PromptStep(nil), list...)
}

// Has reports whether docType has a specialized catalog.
func (c *Catalog) Has(docType domain.DocumentType) bool {
	_, ok := c.steps[docType]
	return ok
}

func checkContiguous(list []domain.PromptStep) error {
	if len(list) == 0 {
		return fmt.Errorf("no steps")
	}
	for i, s := range list {
		if s.Step != i+1 {
			return fmt.Errorf("step at index %d is numbered %d, want %d", i, s.Step, i+1)
		}
	}
	return nil
}

func genericSteps() []domain.PromptStep {
	return []domain.PromptStep{
		{Step: 1, Name: "Generic extraction", Description: "Extract all relevant fields from the document", PromptText: genericPrompt},
	}
}

func defaultSteps() map[domain.DocumentType][]domain.PromptStep {
	invoiceSteps := func(label string) []domain.PromptStep {
		return []domain.PromptStep{
			{Step: 1, Name: "Header", Description: "Extract the invoice header, parties and totals", PromptText: fmt.Sprintf(invoiceHeaderPrompt, label)},
			{Step: 2, Name: "Items", Description: "Extract every product line", PromptText: fmt.Sprintf(invoiceItemsPrompt, label)},
		}
	}

	return map[domain.DocumentType][]domain.PromptStep{
		domain.DocumentTypeProformaInvoice:   invoiceSteps("proforma invoice"),
		domain.DocumentTypeCommercialInvoice: invoiceSteps("commercial invoice"),
		domain.DocumentTypePackingList: {
			{Step: 1, Name: "Header", Description: "Extract the packing list header and totals", PromptText: packingListHeaderPrompt},
			{Step: 2, Name: "Containers", Description: "Identify containers and cargo units", PromptText: packingListContainersPrompt},
			{Step: 3, Name: "Disposition", Description: "Explain how products are distributed among containers", PromptText: packingListDispositionPrompt, ExpectsPriorOutput: true},
			{Step: 4, Name: "Items", Description: "Extract every packed product line", PromptText: packingListItemsPrompt, ExpectsPriorOutput: true},
		},
		domain.DocumentTypeSwift: {
			{Step: 1, Name: "SWIFT message", Description: "Extract the payment message fields", PromptText: swiftPrompt},
		},
		domain.DocumentTypeDI: {
			{Step: 1, Name: "General data", Description: "Extract the declaration header", PromptText: diHeaderPrompt},
			{Step: 2, Name: "Additions", Description: "Extract every addition", PromptText: diItemsPrompt},
			{Step: 3, Name: "Taxes", Description: "Extract the assessed taxes", PromptText: diTaxesPrompt},
		},
		domain.DocumentTypeNumerario: {
			{Step: 1, Name: "Declaration", Description: "Identify the import declaration referenced", PromptText: numerarioDIPrompt},
			{Step: 2, Name: "Header", Description: "Extract the statement header and totals", PromptText: numerarioHeaderPrompt},
			{Step: 3, Name: "Expenses", Description: "Extract every expense line", PromptText: numerarioItemsPrompt},
		},
		domain.DocumentTypeNotaFiscal: {
			{Step: 1, Name: "Header", Description: "Extract the invoice header, parties and totals", PromptText: notaFiscalHeaderPrompt},
			{Step: 2, Name: "Items", Description: "Extract every product line", PromptText: notaFiscalItemsPrompt},
		},
	}
}
