package conversions

import (
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/fhir_dto"
	"strings"
)

// QuestionType is the declared answer type of a question when the
// schema-aware converter is in use.
type QuestionType string

const (
	QuestionTypeString  QuestionType = "string"
	QuestionTypeInteger QuestionType = "integer"
	QuestionTypeDecimal QuestionType = "decimal"
	QuestionTypeBoolean QuestionType = "boolean"
	QuestionTypeChoice  QuestionType = "choice"
)

type codingEntry struct {
	system string
	code   string
}

// CodingTable is the static terminology lookup used to enrich raw string
// answers into codings. It is read-only after construction and safe for
// concurrent use. Unknown values are never an error; callers fall back to
// valueString.
type CodingTable struct {
	genders       map[string]codingEntry
	choices       map[string]map[string]codingEntry
	questionTypes map[string]QuestionType
}

// NewCodingTable builds the versioned static table: administrative-gender
// values keyed by value alone, SNOMED CT comorbidities and RxNorm
// medications/doses keyed by (questionId, value).
func NewCodingTable() *CodingTable {
	return &CodingTable{
		genders: map[string]codingEntry{
			"male":    {system: constvars.TerminologySystemAdministrativeGender, code: "male"},
			"female":  {system: constvars.TerminologySystemAdministrativeGender, code: "female"},
			"other":   {system: constvars.TerminologySystemAdministrativeGender, code: "other"},
			"unknown": {system: constvars.TerminologySystemAdministrativeGender, code: "unknown"},
		},
		choices: map[string]map[string]codingEntry{
			"comorbidities": {
				"type 2 diabetes mellitus":  {system: constvars.TerminologySystemSNOMED, code: "44054006"},
				"hypertension":              {system: constvars.TerminologySystemSNOMED, code: "38341003"},
				"dyslipidemia":              {system: constvars.TerminologySystemSNOMED, code: "370992007"},
				"obstructive sleep apnea":   {system: constvars.TerminologySystemSNOMED, code: "78275009"},
				"cardiovascular disease":    {system: constvars.TerminologySystemSNOMED, code: "49601007"},
				"prediabetes":               {system: constvars.TerminologySystemSNOMED, code: "714628002"},
				"non-alcoholic fatty liver": {system: constvars.TerminologySystemSNOMED, code: "197321007"},
			},
			"previous-weight-loss-medications": {
				"semaglutide":            {system: constvars.TerminologySystemRxNorm, code: "1991302"},
				"liraglutide":            {system: constvars.TerminologySystemRxNorm, code: "475968"},
				"orlistat":               {system: constvars.TerminologySystemRxNorm, code: "37925"},
				"phentermine":            {system: constvars.TerminologySystemRxNorm, code: "8152"},
				"phentermine-topiramate": {system: constvars.TerminologySystemRxNorm, code: "1302827"},
				"naltrexone-bupropion":   {system: constvars.TerminologySystemRxNorm, code: "1551468"},
			},
			"requested-dose": {
				"0.25 mg": {system: constvars.TerminologySystemRxNorm, code: "2553501"},
				"0.5 mg":  {system: constvars.TerminologySystemRxNorm, code: "2553601"},
				"1 mg":    {system: constvars.TerminologySystemRxNorm, code: "2553603"},
				"1.7 mg":  {system: constvars.TerminologySystemRxNorm, code: "2553802"},
				"2.4 mg":  {system: constvars.TerminologySystemRxNorm, code: "2553902"},
			},
		},
		questionTypes: map[string]QuestionType{
			"patient-age":                      QuestionTypeInteger,
			"patient-gender":                   QuestionTypeChoice,
			"current-bmi":                      QuestionTypeDecimal,
			"current-weight":                   QuestionTypeDecimal,
			"comorbidities":                    QuestionTypeChoice,
			"previous-weight-loss-medications": QuestionTypeChoice,
			"requested-dose":                   QuestionTypeChoice,
		},
	}
}

// LookupGender matches value case-insensitively against the
// administrative-gender vocabulary. The returned coding keeps the caller's
// original casing as display and the lowercase canonical form as code.
func (t *CodingTable) LookupGender(value string) (fhir_dto.Coding, bool) {
	entry, ok := t.genders[strings.ToLower(value)]
	if !ok {
		return fhir_dto.Coding{}, false
	}
	return fhir_dto.Coding{
		System:  entry.system,
		Code:    entry.code,
		Display: value,
	}, true
}

// LookupChoice matches (questionID, value) case-insensitively against the
// richer SNOMED/RxNorm tables used by the schema-aware converter.
func (t *CodingTable) LookupChoice(questionID, value string) (fhir_dto.Coding, bool) {
	values, ok := t.choices[questionID]
	if !ok {
		return fhir_dto.Coding{}, false
	}
	entry, ok := values[strings.ToLower(value)]
	if !ok {
		return fhir_dto.Coding{}, false
	}
	return fhir_dto.Coding{
		System:  entry.system,
		Code:    entry.code,
		Display: value,
	}, true
}

// DeclaredType reports the declared answer type of a question, when known.
func (t *CodingTable) DeclaredType(questionID string) (QuestionType, bool) {
	questionType, ok := t.questionTypes[questionID]
	return questionType, ok
}
