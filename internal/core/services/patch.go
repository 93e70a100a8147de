package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"educycle-api/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Patch is a loosely typed field map as decoded from a JSON body
type Patch map[string]interface{}

// layouts accepted for timestamp fields
var patchTimeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"}

func invalidField(key string, v interface{}) error {
	return fmt.Errorf("%w: field %q cannot take value %v", domain.ErrInvalidInput, key, v)
}

func (p Patch) getString(key string) (string, bool, error) {
	raw, ok := p[key]
	if !ok {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", true, invalidField(key, raw)
	}
	return s, true, nil
}

func (p Patch) getDecimal(key string) (decimal.Decimal, bool, error) {
	raw, ok := p[key]
	if !ok {
		return decimal.Zero, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), true, nil
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, true, invalidField(key, raw)
		}
		return d, true, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, true, invalidField(key, raw)
		}
		return d, true, nil
	}
	return decimal.Zero, true, invalidField(key, raw)
}

func (p Patch) getTime(key string) (time.Time, bool, error) {
	s, ok, err := p.getString(key)
	if !ok || err != nil {
		return time.Time{}, ok, err
	}
	for _, layout := range patchTimeLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t, true, nil
		}
	}
	return time.Time{}, true, invalidField(key, s)
}

func (p Patch) getInt(key string) (int, bool, error) {
	raw, ok := p[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, true, invalidField(key, raw)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, true, invalidField(key, raw)
		}
		return n, true, nil
	}
	return 0, true, invalidField(key, raw)
}

// patchEnum coerces a string field through parse, keeping parse's error
func patchEnum[T ~string](p Patch, key string, parse func(string) (T, error)) (T, bool, error) {
	var zero T
	s, ok, err := p.getString(key)
	if !ok || err != nil {
		return zero, ok, err
	}
	v, err := parse(s)
	if err != nil {
		return zero, true, err
	}
	return v, true, nil
}
