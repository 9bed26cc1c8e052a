package validator

import (
	"tradedocs/internal/domain"
)

// Validator checks that an assembled result carries the fields each document
// type needs downstream. It only reports presence; values are never judged.
// Findings are warnings and never fail an extraction.
type Validator struct {
	rules map[domain.DocumentType][]requiredField
}

// New creates a Validator with the built-in required fields.
func New() *Validator {
	return &Validator{rules: defaultRules()}
}

// Check returns a warning for every required section or field missing from
// result. Types without rules only require a header.
func (v *Validator) Check(docType domain.DocumentType, result domain.StructuredResult) []domain.FieldWarning {
	rules, ok := v.rules[docType]
	if !ok {
		rules = []requiredField{{section: domain.SectionHeader, field: ""}}
	}

	warnings := []domain.FieldWarning{}
	reported := map[domain.SectionName]bool{}
	for _, r := range rules {
		if !result.Has(r.section) {
			if !reported[r.section] {
				reported[r.section] = true
				warnings = append(warnings, domain.FieldWarning{
					Section: r.section,
					Message: "section missing",
				})
			}
			continue
		}
		warnings = append(warnings, r.check(result)...)
	}
	return warnings
}
