package conversions

import (
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/fhir_dto"
)

type genericItemConverter struct {
	formatter *AnswerFormatter
}

// NewGenericItemConverter builds the shape-driven converter: formatting is
// decided entirely by the answer's wire shape and literal value, never by a
// declared schema.
func NewGenericItemConverter(formatter *AnswerFormatter) ItemConverter {
	return &genericItemConverter{formatter: formatter}
}

func (c *genericItemConverter) Convert(item requests.QuestionAnswerItem) fhir_dto.QuestionnaireResponseItem {
	variants := c.formatter.FormatAnswer(item.QuestionID, item.Answer)
	return buildResponseItem(item, variants)
}

type schemaItemConverter struct {
	formatter *AnswerFormatter
	table     *CodingTable
}

// NewSchemaItemConverter builds the schema-aware converter: when a question
// has a declared type, string answers to choice questions are resolved
// against the SNOMED/RxNorm tables and numeric strings against the declared
// integer/decimal type. Everything else falls through to the generic rules.
func NewSchemaItemConverter(formatter *AnswerFormatter, table *CodingTable) ItemConverter {
	return &schemaItemConverter{formatter: formatter, table: table}
}

func (c *schemaItemConverter) Convert(item requests.QuestionAnswerItem) fhir_dto.QuestionnaireResponseItem {
	questionType, declared := c.table.DeclaredType(item.QuestionID)
	if !declared {
		variants := c.formatter.FormatAnswer(item.QuestionID, item.Answer)
		return buildResponseItem(item, variants)
	}

	var variants []fhir_dto.QuestionnaireResponseItemAnswer
	switch item.Answer.Kind {
	case requests.AnswerKindStringList:
		variants = make([]fhir_dto.QuestionnaireResponseItemAnswer, 0, len(item.Answer.Strings))
		for _, value := range item.Answer.Strings {
			variants = append(variants, c.convertScalarString(item.QuestionID, questionType, value))
		}
	case requests.AnswerKindString:
		variants = []fhir_dto.QuestionnaireResponseItemAnswer{c.convertScalarString(item.QuestionID, questionType, item.Answer.String)}
	default:
		variants = c.formatter.FormatAnswer(item.QuestionID, item.Answer)
	}
	return buildResponseItem(item, variants)
}

func (c *schemaItemConverter) convertScalarString(questionID string, questionType QuestionType, value string) fhir_dto.QuestionnaireResponseItemAnswer {
	switch questionType {
	case QuestionTypeChoice:
		if coding, ok := c.table.LookupChoice(questionID, value); ok {
			return fhir_dto.QuestionnaireResponseItemAnswer{ValueCoding: &coding}
		}
	case QuestionTypeInteger, QuestionTypeDecimal:
		if variant, ok := c.formatter.FormatNumericString(questionID, value); ok {
			return variant
		}
		// A declared-numeric question never carries a coded vocabulary, so
		// an unparsable value stays a plain valueString instead of running
		// through the gender lookup.
		return fhir_dto.QuestionnaireResponseItemAnswer{ValueString: &value}
	}
	return c.formatter.FormatScalarString(value)
}

// buildResponseItem attaches the surviving variants to the output item.
// Zero-content string variants are filtered here so an empty-string answer
// produces an item with the answer field omitted entirely.
func buildResponseItem(item requests.QuestionAnswerItem, variants []fhir_dto.QuestionnaireResponseItemAnswer) fhir_dto.QuestionnaireResponseItem {
	kept := variants[:0:0]
	for _, variant := range variants {
		if variant.ValueString != nil && *variant.ValueString == "" {
			continue
		}
		kept = append(kept, variant)
	}
	if len(kept) == 0 {
		kept = nil
	}
	return fhir_dto.QuestionnaireResponseItem{
		LinkID: item.QuestionID,
		Text:   item.QuestionText,
		Answer: kept,
	}
}
