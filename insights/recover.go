package insights

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
)

var (
	// ErrNoJSON means the model response contained no object or array literal.
	ErrNoJSON = errors.New("no JSON object or array found in model response")
	// ErrUnparseable means a fragment was found but could not be turned
	// into valid JSON even after repair.
	ErrUnparseable = errors.New("model response could not be parsed as JSON")
)

// RecoverError carries the raw model text alongside the failure so the
// caller can surface it for diagnosis.
type RecoverError struct {
	Raw string
	Err error
}

func (e *RecoverError) Error() string { return e.Err.Error() }
func (e *RecoverError) Unwrap() error { return e.Err }

// RecoverJSON pulls the first top-level JSON object or array out of the
// model's free-text response, repairs common malformations (trailing
// commas, unquoted keys, smart quotes) and parses it.
func RecoverJSON(raw string) (any, error) {
	fragment, ok := extractJSON(raw)
	if !ok {
		return nil, &RecoverError{Raw: raw, Err: ErrNoJSON}
	}

	repaired, err := jsonrepair.JSONRepair(fragment)
	if err != nil {
		repaired = fragment
	}

	var value any
	if err := jsoniter.UnmarshalFromString(repaired, &value); err != nil {
		return nil, &RecoverError{Raw: raw, Err: fmt.Errorf("%w: %v", ErrUnparseable, err)}
	}
	return value, nil
}

// extractJSON finds the first '{' or '[' and greedily matches it against
// the last corresponding closer in the text.
func extractJSON(raw string) (string, bool) {
	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')

	var start int
	var closer byte
	switch {
	case objStart == -1 && arrStart == -1:
		return "", false
	case arrStart == -1 || (objStart != -1 && objStart < arrStart):
		start, closer = objStart, '}'
	default:
		start, closer = arrStart, ']'
	}

	end := strings.LastIndexByte(raw, closer)
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
