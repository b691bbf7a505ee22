package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var ErrNoJSON = errors.New("no JSON found in response")

// ParseJSON extracts a single JSON object of type T from a model reply. A
// reply holding a list yields its first element.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	items, err := ParseJSONList[T](response)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: empty list", ErrNoJSON)
	}
	return items[0], nil
}

// ParseJSONList extracts a JSON list of T from a model reply. It tolerates
// the usual LLM quirks: markdown fences, prose around the payload, trailing
// commas and similar damage, and a bare object where a list was asked for.
func ParseJSONList[T any](response string) ([]T, error) {
	payload, isList, err := extract(response)
	if err != nil {
		return nil, err
	}

	if repaired, rerr := jsonrepair.JSONRepair(payload); rerr == nil {
		payload = repaired
	}

	if isList {
		var items []T
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, payload)
		}
		return items, nil
	}

	var item T
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, payload)
	}
	return []T{item}, nil
}

// StripFences removes a surrounding markdown code block.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extract cuts the outermost list or object out of s.
func extract(s string) (string, bool, error) {
	s = StripFences(s)

	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return "", false, ErrNoJSON
	}

	open := s[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	end := strings.LastIndexByte(s, closer)
	if end < start {
		// truncated reply; let the repair close it
		return s[start:], open == '[', nil
	}
	return s[start : end+1], open == '[', nil
}
