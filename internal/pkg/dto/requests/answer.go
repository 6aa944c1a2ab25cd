package requests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AnswerKind discriminates the four accepted wire shapes of a raw answer.
// AnswerKindAbsent marks a null or missing answer so the validator can
// report it; it is never produced by a well-formed item.
type AnswerKind int

const (
	AnswerKindAbsent AnswerKind = iota
	AnswerKindString
	AnswerKindNumber
	AnswerKindBoolean
	AnswerKindStringList
)

// Answer is the tagged union over string | number | boolean | []string.
// Exactly one payload field is meaningful, selected by Kind.
type Answer struct {
	Kind    AnswerKind
	String  string
	Number  float64
	Boolean bool
	Strings []string
}

func NewStringAnswer(value string) Answer {
	return Answer{Kind: AnswerKindString, String: value}
}

func NewNumberAnswer(value float64) Answer {
	return Answer{Kind: AnswerKindNumber, Number: value}
}

func NewBooleanAnswer(value bool) Answer {
	return Answer{Kind: AnswerKindBoolean, Boolean: value}
}

func NewStringListAnswer(values []string) Answer {
	return Answer{Kind: AnswerKindStringList, Strings: values}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Answer{Kind: AnswerKindAbsent}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*a = Answer{Kind: AnswerKindString, String: value}
		return nil
	case 't', 'f':
		var value bool
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*a = Answer{Kind: AnswerKindBoolean, Boolean: value}
		return nil
	case '[':
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("answer array must contain only strings: %w", err)
		}
		*a = Answer{Kind: AnswerKindStringList, Strings: values}
		return nil
	case '{':
		return fmt.Errorf("answer must be a string, number, boolean or array of strings")
	default:
		value, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("answer must be a string, number, boolean or array of strings: %w", err)
		}
		*a = Answer{Kind: AnswerKindNumber, Number: value}
		return nil
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerKindString:
		return json.Marshal(a.String)
	case AnswerKindNumber:
		return json.Marshal(a.Number)
	case AnswerKindBoolean:
		return json.Marshal(a.Boolean)
	case AnswerKindStringList:
		return json.Marshal(a.Strings)
	default:
		return []byte("null"), nil
	}
}
