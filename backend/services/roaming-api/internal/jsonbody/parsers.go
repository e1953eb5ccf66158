package jsonbody

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var errWrongType = errors.New("wrong JSON type")

const maxDurationSeconds = float64(math.MaxInt64 / int64(time.Second))

// String accepts a non-empty JSON string.
func String(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errWrongType
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("must not be empty")
	}
	return s, nil
}

// Float accepts a JSON number or a numeric string.
func Float(raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, errWrongType
}

// Time accepts an ISO 8601 timestamp and returns it in UTC.
func Time(raw any) (time.Time, error) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, errWrongType
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.New("expected an ISO 8601 timestamp")
	}
	return ts.UTC(), nil
}

// Duration accepts a number of seconds or a Go duration string such as "15m".
func Duration(raw any) (time.Duration, error) {
	switch v := raw.(type) {
	case json.Number, float64:
		seconds, err := Float(v)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return 0, errors.New("expected a finite number of seconds")
		}
		if seconds < 0 {
			return 0, errors.New("must not be negative")
		}
		if seconds > maxDurationSeconds {
			return 0, errors.New("duration is too large")
		}
		return time.Duration(seconds * float64(time.Second)), nil
	case string:
		if seconds, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return Duration(seconds)
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d < 0 {
			return 0, errors.New("expected a duration")
		}
		return d, nil
	}
	return 0, errWrongType
}

// Via lifts a string parser, such as an identifier constructor, into a Parser.
func Via[T any](parse func(string) (T, error)) Parser[T] {
	return func(raw any) (T, error) {
		var zero T
		s, err := String(raw)
		if err != nil {
			return zero, err
		}
		return parse(s)
	}
}

// List parses a JSON array element by element.
func List[T any](parse Parser[T]) Parser[[]T] {
	return func(raw any) ([]T, error) {
		items, ok := raw.([]any)
		if !ok {
			return nil, errWrongType
		}
		out := make([]T, 0, len(items))
		for _, item := range items {
			v, err := parse(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Any returns the decoded value unchanged.
func Any(raw any) (any, error) {
	return raw, nil
}
