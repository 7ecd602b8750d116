package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// fields is a decoded JSON object whose keys may come under several names
// depending on the backend serializer.
type fields map[string]any

func decodeFields(data []byte) (fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var f fields
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}

	if f == nil {
		return nil, fmt.Errorf("expected a JSON object, got null")
	}

	return f, nil
}

func asFields(v any) (fields, bool) {
	m, ok := v.(map[string]any)

	return fields(m), ok
}

// lookup returns the first key present with a non-null value.
func (f fields) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			return normalize(v), true
		}
	}

	return nil, false
}

// text returns the first non-empty string among keys.
func (f fields) text(keys ...string) string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}

		if s := cast.ToString(normalize(v)); strings.TrimSpace(s) != "" {
			return s
		}
	}

	return ""
}

func (f fields) integer(keys ...string) (int64, error) {
	v, ok := f.lookup(keys...)
	if !ok {
		return 0, nil
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", keys[0], err)
	}

	return n, nil
}

func (f fields) decimal(keys ...string) (decimal.Decimal, bool, error) {
	v, ok := f.lookup(keys...)
	if !ok {
		return decimal.Zero, false, nil
	}

	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("field %s: %w", keys[0], err)
	}

	return d, true, nil
}

// integerOr is integer for records that must still load when one value is
// malformed: the bad value is logged and read as zero.
func (f fields) integerOr(keys ...string) int64 {
	n, err := f.integer(keys...)
	if err != nil {
		slog.Warn("Ignoring malformed field", slog.String("field", keys[0]), slog.String("error", err.Error()))

		return 0
	}

	return n
}

// decimalOr reports a malformed value as absent.
func (f fields) decimalOr(keys ...string) (decimal.Decimal, bool) {
	d, ok, err := f.decimal(keys...)
	if err != nil {
		slog.Warn("Ignoring malformed field", slog.String("field", keys[0]), slog.String("error", err.Error()))

		return decimal.Zero, false
	}

	return d, ok
}

func normalize(v any) any {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}

	return v
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, nil
		}

		return decimal.NewFromString(s)
	case float64:
		return decimal.NewFromFloat(t), nil
	case bool:
		return decimal.Zero, fmt.Errorf("unexpected boolean %v", t)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromFloat(f), nil
}

const displayDateLayout = "2006-01-02 15:04"

// FormatDate renders an ISO-8601-like timestamp as "YYYY-MM-DD HH:MM".
// Unparseable input is cut to its first 16 characters.
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}

	t, err := dateparse.ParseAny(raw)
	if err == nil {
		return t.Format(displayDateLayout)
	}

	r := []rune(raw)
	if len(r) > 16 {
		return string(r[:16])
	}

	return raw
}
