package extraction

import (
	"bytes"
	"encoding/json"

	"tradedocs/internal/domain"
)

// NormalizeSection checks that data matches the shape of the named section and
// returns it compacted. Text sections take a JSON string.
func NormalizeSection(name domain.SectionName, data json.RawMessage) (json.RawMessage, error) {
	shape, ok := domain.SectionShapes[name]
	if !ok {
		return nil, domain.ErrUnknownSection
	}
	trimmed := bytes.TrimSpace(data)

	if shape == domain.ShapeText {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, domain.ErrInvalidSectionData
		}
		return json.Marshal(s)
	}

	out, err := decodeSection(string(trimmed), shape)
	if err != nil {
		return nil, domain.ErrInvalidSectionData
	}
	return out, nil
}
