package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/domain"
	"tradedocs/internal/extraction"
)

func TestCatalog_StepsAreContiguousFromOne(t *testing.T) {
	c := extraction.NewCatalog()

	types := append([]domain.DocumentType{"unknown_type_xyz", ""}, domain.KnownDocumentTypes...)
	for _, docType := range types {
		steps := c.Steps(docType)
		require.NotEmpty(t, steps, "type %q", docType)
		for i, s := range steps {
			assert.Equal(t, i+1, s.Step, "type %q index %d", docType, i)
			assert.NotEmpty(t, s.Name)
			assert.NotEmpty(t, s.PromptText)
		}
	}
}

func TestCatalog_StepCounts(t *testing.T) {
	c := extraction.NewCatalog()

	want := map[domain.DocumentType]int{
		domain.DocumentTypeSwift:             1,
		domain.DocumentTypeDI:                3,
		domain.DocumentTypeNumerario:         3,
		domain.DocumentTypeNotaFiscal:        2,
		domain.DocumentTypeCommercialInvoice: 2,
		domain.DocumentTypeProformaInvoice:   2,
		domain.DocumentTypePackingList:       4,
	}
	for docType, n := range want {
		assert.Len(t, c.Steps(docType), n, "type %s", docType)
		assert.True(t, c.Has(docType))
	}
}

func TestCatalog_UnmappedTypeFallsBackToGenericStep(t *testing.T) {
	c := extraction.NewCatalog()

	steps := c.Steps("unknown_type_xyz")

	require.Len(t, steps, 1)
	assert.Equal(t, 1, steps[0].Step)
	assert.False(t, steps[0].ExpectsPriorOutput)
	assert.False(t, c.Has("unknown_type_xyz"))
}

func TestCatalog_PackingListChainsPriorOutput(t *testing.T) {
	steps := extraction.NewCatalog().Steps(domain.DocumentTypePackingList)

	assert.False(t, steps[0].ExpectsPriorOutput)
	assert.False(t, steps[1].ExpectsPriorOutput)
	assert.True(t, steps[2].ExpectsPriorOutput)
	assert.True(t, steps[3].ExpectsPriorOutput)
}

func TestCatalog_StepsReturnsCopy(t *testing.T) {
	c := extraction.NewCatalog()

	steps := c.Steps(domain.DocumentTypeDI)
	steps[0].Name = "changed"

	assert.NotEqual(t, "changed", c.Steps(domain.DocumentTypeDI)[0].Name)
}

func TestNewCatalogFrom_RejectsGaps(t *testing.T) {
	fallback := []domain.PromptStep{{Step: 1, Name: "generic", PromptText: "p"}}

	_, err := extraction.NewCatalogFrom(map[domain.DocumentType][]domain.PromptStep{
		"custom": {{Step: 1, Name: "a"}, {Step: 3, Name: "b"}},
	}, fallback)
	assert.Error(t, err)

	_, err = extraction.NewCatalogFrom(map[domain.DocumentType][]domain.PromptStep{
		"custom": {{Step: 2, Name: "a"}},
	}, fallback)
	assert.Error(t, err)

	_, err = extraction.NewCatalogFrom(nil, nil)
	assert.Error(t, err)

	c, err := extraction.NewCatalogFrom(map[domain.DocumentType][]domain.PromptStep{
		"custom": {{Step: 1, Name: "a"}, {Step: 2, Name: "b"}},
	}, fallback)
	require.NoError(t, err)
	assert.Len(t, c.Steps("custom"), 2)
}

func TestCatalog_SectionRule(t *testing.T) {
	c := extraction.NewCatalog()

	rule, step, ok := c.SectionRule(domain.DocumentTypeDI, domain.SectionTaxInfo)
	require.True(t, ok)
	assert.Equal(t, 3, rule.Step)
	assert.Equal(t, domain.ShapeArray, rule.Shape)
	assert.Equal(t, "Taxes", step.Name)

	_, _, ok = c.SectionRule(domain.DocumentTypeSwift, domain.SectionItems)
	assert.False(t, ok)

	// The generic catalog has one step, so only the header can be filled.
	_, _, ok = c.SectionRule("unknown_type_xyz", domain.SectionHeader)
	assert.True(t, ok)
	_, _, ok = c.SectionRule("unknown_type_xyz", domain.SectionItems)
	assert.False(t, ok)

	_, _, ok = c.SectionRule(domain.DocumentTypePackingList, domain.SectionContainers)
	assert.True(t, ok)
}
