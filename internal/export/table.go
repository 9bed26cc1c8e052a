// Package export renders structured result sections as CSV or XLSX tables.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"tradedocs/internal/domain"
)

// Table is a section flattened into a header row and data rows. Cells keep
// their raw JSON so each writer can choose how to type them.
type Table struct {
	Columns []string
	Rows    [][]json.RawMessage
}

// TableFromSection flattens a section's data. An array of objects becomes one
// row per element with the union of keys as columns, in first-seen order. An
// object becomes field/value rows. Text sections are not tabular.
func TableFromSection(name domain.SectionName, data json.RawMessage) (*Table, error) {
	shape, ok := domain.SectionShapes[name]
	if !ok {
		return nil, domain.ErrUnknownSection
	}

	switch shape {
	case domain.ShapeArray:
		return tableFromArray(data)
	case domain.ShapeObject:
		return tableFromObject(data)
	default:
		return nil, domain.ErrSectionNotExportable
	}
}

func tableFromArray(data json.RawMessage) (*Table, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("decoding array section: %w", err)
	}

	t := &Table{}
	index := map[string]int{}
	type rowFields struct {
		values map[string]json.RawMessage
		scalar json.RawMessage
	}
	parsed := make([]rowFields, 0, len(elems))

	for _, elem := range elems {
		keys, values, err := orderedObject(elem)
		if err != nil {
			// Scalars and nested arrays go into a single "value" column.
			parsed = append(parsed, rowFields{scalar: elem})
			keys = []string{"value"}
		} else {
			parsed = append(parsed, rowFields{values: values})
		}
		for _, k := range keys {
			if _, seen := index[k]; !seen {
				index[k] = len(t.Columns)
				t.Columns = append(t.Columns, k)
			}
		}
	}

	for _, p := range parsed {
		row := make([]json.RawMessage, len(t.Columns))
		if p.values == nil {
			row[index["value"]] = p.scalar
		}
		for k, v := range p.values {
			row[index[k]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func tableFromObject(data json.RawMessage) (*Table, error) {
	keys, values, err := orderedObject(data)
	if err != nil {
		return nil, fmt.Errorf("decoding object section: %w", err)
	}
	t := &Table{Columns: []string{"field", "value"}}
	for _, k := range keys {
		name, _ := json.Marshal(k)
		t.Rows = append(t.Rows, []json.RawMessage{name, values[k]})
	}
	return t, nil
}

// orderedObject decodes a JSON object keeping its key order.
func orderedObject(data json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("not an object")
	}

	var keys []string
	values := map[string]json.RawMessage{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// cellText renders a raw JSON value as display text. Strings are unquoted,
// null and missing cells are empty and nested values stay compact JSON.
func cellText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// cellValue is cellText with numbers and booleans kept typed.
func cellValue(raw json.RawMessage) interface{} {
	text := cellText(raw)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return text
	}
	switch {
	case string(raw) == "true":
		return true
	case string(raw) == "false":
		return false
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	}
	return text
}

// Write renders t to w in the given format.
func Write(w io.Writer, t *Table, format domain.ExportFormat, sheetName string) error {
	switch format {
	case domain.ExportFormatCSV:
		return WriteCSV(w, t)
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, t, sheetName)
	default:
		return domain.ErrInvalidExportFormat
	}
}

// ContentType returns the MIME type of an export format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
