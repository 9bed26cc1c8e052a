package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tradedocs/internal/domain"
)

var emptyObject = json.RawMessage(`{}`)

var (
	errShapeMismatch = errors.New("output does not look like the expected shape")
	errEmptyOutput   = errors.New("empty output")
)

// Assembly is what the Assembler produces from a run's step results.
type Assembly struct {
	StructuredResult domain.StructuredResult
	ExtractedData    json.RawMessage
	RawText          string
}

// Assembler turns sanitized step outputs into a structured result using the
// per-document-type policy table. It never fails: a step whose output does not
// decode into the shape its rule expects is logged and its section left absent.
type Assembler struct {
	log zerolog.Logger
}

// NewAssembler creates an Assembler logging skipped sections to log.
func NewAssembler(log zerolog.Logger) *Assembler {
	return &Assembler{log: log}
}

// Assemble folds steps, in order, into an Assembly. RawText is the output of
// the last step, which keeps non-JSON final answers available to the caller.
func (a *Assembler) Assemble(docType domain.DocumentType, steps []domain.StepResult) Assembly {
	acc := Assembly{
		StructuredResult: domain.StructuredResult{},
		ExtractedData:    emptyObject,
	}
	if len(steps) > 0 {
		acc.RawText = steps[len(steps)-1].RawResult
	}

	policy := PolicyFor(docType)
	for _, step := range steps {
		rule, ok := policy.ruleFor(step.Step)
		if !ok {
			continue
		}
		acc = a.apply(acc, docType, rule, step)
	}
	return acc
}

func (a *Assembler) apply(acc Assembly, docType domain.DocumentType, rule Rule, step domain.StepResult) Assembly {
	data, err := decodeSection(step.RawResult, rule.Shape)
	if err != nil {
		a.log.Warn().
			Err(err).
			Str("document_type", string(docType)).
			Int("step", step.Step).
			Str("section", string(rule.Section)).
			Str("sample", truncate(step.RawResult, 200)).
			Msg("section skipped")
		return acc
	}

	next := Assembly{
		StructuredResult: acc.StructuredResult.With(rule.Section, domain.NewSection(data, step)),
		ExtractedData:    acc.ExtractedData,
		RawText:          acc.RawText,
	}
	if rule.Mirror {
		next.ExtractedData = data
	}
	return next
}

// decodeSection parses text into the given shape. The delimiter check only
// chooses whether a parse is worth attempting; the parse itself decides.
func decodeSection(text string, shape domain.Shape) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyOutput
	}

	switch shape {
	case domain.ShapeText:
		return json.Marshal(text)
	case domain.ShapeObject:
		if !enclosedBy(text, '{', '}') {
			return nil, errShapeMismatch
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return nil, fmt.Errorf("parsing object: %w", err)
		}
	case domain.ShapeArray:
		if !enclosedBy(text, '[', ']') {
			return nil, errShapeMismatch
		}
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(text), &arr); err != nil {
			return nil, fmt.Errorf("parsing array: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return nil, fmt.Errorf("compacting: %w", err)
	}
	return buf.Bytes(), nil
}

func enclosedBy(text string, open, closing byte) bool {
	return len(text) >= 2 && text[0] == open && text[len(text)-1] == closing
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
