package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Argument names shared by the Fathom tools.
const (
	ArgRecordingID         = "recordingId"
	ArgParticipantKeywords = "participantKeywords"
	ArgTitleKeywords       = "titleKeywords"
	ArgStartDate           = "startDate"
	ArgEndDate             = "endDate"
)

// ParseStringOrArray parses an optional parameter that can be either a single
// string or an array of strings. A missing parameter yields nil.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, nil
	}

	switch v := param.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []string:
		return v, nil
	case []interface{}:
		result := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			result = append(result, str)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// OptionalString returns a string argument, or "" when it is absent.
func OptionalString(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return strings.TrimSpace(s), nil
}

// ParseRecordingID reads the required recordingId argument. It accepts a JSON
// number or a numeric string and requires a positive integer.
func ParseRecordingID(args map[string]interface{}) (int64, error) {
	v, ok := args[ArgRecordingID]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", ArgRecordingID)
	}

	var id int64
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("%s must be an integer", ArgRecordingID)
		}
		id = int64(n)
	case int:
		id = int64(n)
	case int64:
		id = n
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", ArgRecordingID)
		}
		id = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", ArgRecordingID)
		}
		id = parsed
	default:
		return 0, fmt.Errorf("%s must be a number", ArgRecordingID)
	}

	if id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", ArgRecordingID)
	}
	return id, nil
}

// KeywordsFromArgs collects the participant and title keywords of a search
// request, ignoring malformed values.
func KeywordsFromArgs(args map[string]interface{}) []string {
	var keywords []string
	for _, name := range []string{ArgParticipantKeywords, ArgTitleKeywords} {
		values, err := ParseStringOrArray(args[name], name)
		if err != nil {
			continue
		}
		for _, k := range values {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
	}
	return keywords
}
