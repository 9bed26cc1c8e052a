package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"tradedocs/internal/domain"
)

// requiredField names a value that must be present in a section. An empty
// field means the section itself must hold at least one entry. perItem applies
// the field to every element of a list section.
type requiredField struct {
	section domain.SectionName
	field   string
	perItem bool
}

func header(fields ...string) []requiredField {
	out := make([]requiredField, len(fields))
	for i, f := range fields {
		out[i] = requiredField{section: domain.SectionHeader, field: f}
	}
	return out
}

func list(section domain.SectionName, itemFields ...string) []requiredField {
	out := []requiredField{{section: section}}
	for _, f := range itemFields {
		out = append(out, requiredField{section: section, field: f, perItem: true})
	}
	return out
}

func concat(groups ...[]requiredField) []requiredField {
	var out []requiredField
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func defaultRules() map[domain.DocumentType][]requiredField {
	invoice := concat(
		header("invoiceNumber", "invoiceDate", "exporter.name", "importer.name", "currency", "totalValue"),
		list(domain.SectionItems, "description", "quantity"),
	)
	return map[domain.DocumentType][]requiredField{
		domain.DocumentTypeCommercialInvoice: invoice,
		domain.DocumentTypeProformaInvoice:   invoice,
		domain.DocumentTypePackingList: concat(
			header("packingListNumber"),
			list(domain.SectionItems, "description"),
		),
		domain.DocumentTypeSwift: header("transactionReference", "valueDate", "currency", "amount", "beneficiary"),
		domain.DocumentTypeDI: concat(
			header("diNumber", "registrationDate", "importer.name"),
			list(domain.SectionItems, "additionNumber", "ncm"),
			list(domain.SectionTaxInfo, "tax"),
		),
		domain.DocumentTypeNumerario: concat(
			[]requiredField{{section: domain.SectionDIInfo, field: "diNumber"}},
			header("documentNumber", "totalAmount"),
			list(domain.SectionItems, "description", "amount"),
		),
		domain.DocumentTypeNotaFiscal: concat(
			header("number", "accessKey", "issueDate", "totalAmount"),
			list(domain.SectionItems, "description", "ncm"),
		),
	}
}

func (r requiredField) check(result domain.StructuredResult) []domain.FieldWarning {
	section, ok := result[r.section]
	if !ok {
		return nil
	}

	if r.perItem {
		var items []map[string]interface{}
		if err := json.Unmarshal(section.Data, &items); err != nil {
			return nil
		}
		var warnings []domain.FieldWarning
		for i, item := range items {
			if !present(lookup(item, r.field)) {
				path := fmt.Sprintf("[%d].%s", i, r.field)
				warnings = append(warnings, domain.FieldWarning{
					Section: r.section,
					Field:   path,
					Message: fmt.Sprintf("%s%s is missing or empty", r.section, path),
				})
			}
		}
		return warnings
	}

	if r.field == "" {
		var items []json.RawMessage
		if err := json.Unmarshal(section.Data, &items); err == nil && len(items) == 0 {
			return []domain.FieldWarning{{Section: r.section, Message: fmt.Sprintf("%s has no entries", r.section)}}
		}
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(section.Data, &obj); err != nil {
		return nil
	}
	if present(lookup(obj, r.field)) {
		return nil
	}
	return []domain.FieldWarning{{
		Section: r.section,
		Field:   r.field,
		Message: fmt.Sprintf("%s.%s is missing or empty", r.section, r.field),
	}}
}

// lookup walks a dotted path through nested objects.
func lookup(obj map[string]interface{}, path string) interface{} {
	var cur interface{} = obj
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func present(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	default:
		return true
	}
}
