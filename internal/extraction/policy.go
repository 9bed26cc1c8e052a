package extraction

import "tradedocs/internal/domain"

// Rule routes the output of one step into a structured result section.
type Rule struct {
	Step    int
	Section domain.SectionName
	Shape   domain.Shape
	// Mirror also publishes the section data as FinalResult.ExtractedData.
	Mirror bool
}

// Policy is the ordered rule list of one document type.
type Policy []Rule

func (p Policy) ruleFor(step int) (Rule, bool) {
	for _, r := range p {
		if r.Step == step {
			return r, true
		}
	}
	return Rule{}, false
}

// genericPolicy serves packing lists and any type without its own policy.
var genericPolicy = Policy{
	{Step: 1, Section: domain.SectionHeader, Shape: domain.ShapeObject},
	{Step: 2, Section: domain.SectionContainers, Shape: domain.ShapeArray},
	{Step: 3, Section: domain.SectionDispositionExplanation, Shape: domain.ShapeText},
	{Step: 4, Section: domain.SectionItems, Shape: domain.ShapeArray, Mirror: true},
}

var policies = map[domain.DocumentType]Policy{
	domain.DocumentTypeSwift: {
		{Step: 1, Section: domain.SectionHeader, Shape: domain.ShapeObject, Mirror: true},
	},
	domain.DocumentTypeDI: {
		{Step: 1, Section: domain.SectionHeader, Shape: domain.ShapeObject},
		{Step: 2, Section: domain.SectionItems, Shape: domain.ShapeArray, Mirror: true},
		{Step: 3, Section: domain.SectionTaxInfo, Shape: domain.ShapeArray},
	},
	domain.DocumentTypeNumerario: {
		{Step: 1, Section: domain.SectionDIInfo, Shape: domain.ShapeObject},
		{Step: 2, Section: domain.SectionHeader, Shape: domain.ShapeObject},
		{Step: 3, Section: domain.SectionItems, Shape: domain.ShapeArray, Mirror: true},
	},
	domain.DocumentTypeNotaFiscal: {
		{Step: 1, Section: domain.SectionHeader, Shape: domain.ShapeObject},
		{Step: 2, Section: domain.SectionItems, Shape: domain.ShapeArray},
	},
	domain.DocumentTypeCommercialInvoice: {
		{Step: 1, Section: domain.SectionHeader, Shape: domain.ShapeObject},
		{Step: 2, Section: domain.SectionItems, Shape: domain.ShapeArray, Mirror: true},
	},
	domain.DocumentTypeProformaInvoice: {
		{Step: 1, Section: domain.SectionHeader, Shape: domain.ShapeObject},
		{Step: 2, Section: domain.SectionItems, Shape: domain.ShapeArray},
	},
	domain.DocumentTypePackingList: genericPolicy,
}

// PolicyFor returns the assembly policy for docType.
func PolicyFor(docType domain.DocumentType) Policy {
	if p, ok := policies[docType]; ok {
		return p
	}
	return genericPolicy
}

// SectionRule returns the rule that fills section for docType. Rules beyond the
// type's step catalog are ignored, so the generic policy only offers the
// sections its catalog can produce.
func (c *Catalog) SectionRule(docType domain.DocumentType, section domain.SectionName) (Rule, domain.PromptStep, bool) {
	steps := c.Steps(docType)
	for _, r := range PolicyFor(docType) {
		if r.Section == section && r.Step <= len(steps) {
			return r, steps[r.Step-1], true
		}
	}
	return Rule{}, domain.PromptStep{}, false
}

// MirroredSection returns the section published as ExtractedData for docType.
func MirroredSection(docType domain.DocumentType) (domain.SectionName, bool) {
	for _, r := range PolicyFor(docType) {
		if r.Mirror {
			return r.Section, true
		}
	}
	return "", false
}
