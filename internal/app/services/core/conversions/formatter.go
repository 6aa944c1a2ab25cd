package conversions

import (
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/fhir_dto"
	"math"
	"strconv"
)

// AnswerFormatter maps one raw answer value to an ordered list of typed FHIR
// answer variants. It is pure and total over the four accepted shapes:
// conversion never fails, it only degrades to valueString.
type AnswerFormatter struct {
	table *CodingTable

	// forcedInteger lists question ids whose numeric answers are always
	// classified as integer, truncating any fractional part. Empty by
	// default; classification is otherwise purely mathematical.
	forcedInteger map[string]struct{}
}

type FormatterOption func(*AnswerFormatter)

// WithForcedIntegerQuestions installs the per-question integer coercion
// strategy for callers that need it.
func WithForcedIntegerQuestions(questionIDs ...string) FormatterOption {
	return func(f *AnswerFormatter) {
		for _, id := range questionIDs {
			f.forcedInteger[id] = struct{}{}
		}
	}
}

func NewAnswerFormatter(table *CodingTable, opts ...FormatterOption) *AnswerFormatter {
	formatter := &AnswerFormatter{
		table:         table,
		forcedInteger: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(formatter)
	}
	return formatter
}

// FormatAnswer converts one raw answer into zero or more answer variants.
// A string slice of length N always yields exactly N variants in input
// order. An absent answer yields nil.
func (f *AnswerFormatter) FormatAnswer(questionID string, answer requests.Answer) []fhir_dto.QuestionnaireResponseItemAnswer {
	switch answer.Kind {
	case requests.AnswerKindStringList:
		variants := make([]fhir_dto.QuestionnaireResponseItemAnswer, 0, len(answer.Strings))
		for _, value := range answer.Strings {
			variants = append(variants, f.formatString(value))
		}
		return variants
	case requests.AnswerKindBoolean:
		value := answer.Boolean
		return []fhir_dto.QuestionnaireResponseItemAnswer{{ValueBoolean: &value}}
	case requests.AnswerKindNumber:
		return []fhir_dto.QuestionnaireResponseItemAnswer{f.formatNumber(questionID, answer.Number)}
	case requests.AnswerKindString:
		return []fhir_dto.QuestionnaireResponseItemAnswer{f.formatString(answer.String)}
	default:
		return nil
	}
}

func (f *AnswerFormatter) formatNumber(questionID string, value float64) fhir_dto.QuestionnaireResponseItemAnswer {
	if _, forced := f.forcedInteger[questionID]; forced {
		value = math.Trunc(value)
	}
	// FHIR integer is a 32-bit signed value; anything outside that range
	// stays a decimal so the conversion cannot overflow.
	if value == math.Trunc(value) && value >= math.MinInt32 && value <= math.MaxInt32 {
		intValue := int(value)
		return fhir_dto.QuestionnaireResponseItemAnswer{ValueInteger: &intValue}
	}
	return fhir_dto.QuestionnaireResponseItemAnswer{ValueDecimal: &value}
}

// formatString applies the scalar-string rule: controlled-vocabulary match
// first, plain valueString otherwise. An empty string still becomes a
// valueString here; suppression is the item converter's responsibility.
func (f *AnswerFormatter) formatString(value string) fhir_dto.QuestionnaireResponseItemAnswer {
	if coding, ok := f.table.LookupGender(value); ok {
		return fhir_dto.QuestionnaireResponseItemAnswer{ValueCoding: &coding}
	}
	return fhir_dto.QuestionnaireResponseItemAnswer{ValueString: &value}
}

// FormatScalarString exposes the scalar-string rule for converters that
// resolve richer codings before falling back to it.
func (f *AnswerFormatter) FormatScalarString(value string) fhir_dto.QuestionnaireResponseItemAnswer {
	return f.formatString(value)
}

// FormatNumericString handles declared integer/decimal questions whose
// answers arrive as strings in schema-aware mode.
func (f *AnswerFormatter) FormatNumericString(questionID, value string) (fhir_dto.QuestionnaireResponseItemAnswer, bool) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fhir_dto.QuestionnaireResponseItemAnswer{}, false
	}
	return f.formatNumber(questionID, parsed), true
}
