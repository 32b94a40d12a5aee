package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// ValidateRecord converts a decoded JSON object into a Record.
// The "id" field becomes Record.ID. Fields whose key is not registered are
// dropped and returned in dropped (sorted). Known fields holding anything other
// than a number, string or null are stored as null and also reported.
func ValidateRecord(raw map[string]any) (types.Record, []string, error) {
	rec := types.Record{Fields: make(map[string]types.Value, len(raw))}
	var dropped []string
	for k, v := range raw {
		if k == "id" {
			id, err := toID(v)
			if err != nil {
				return types.Record{}, nil, err
			}
			rec.ID = id
			continue
		}
		if !Known(k) {
			dropped = append(dropped, k)
			continue
		}
		val, ok := toValue(v)
		if !ok {
			dropped = append(dropped, k)
		}
		rec.Fields[k] = val
	}
	sort.Strings(dropped)
	return rec, dropped, nil
}

func toValue(v any) (types.Value, bool) {
	switch t := v.(type) {
	case nil:
		return types.Null(), true
	case string:
		return types.String(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return types.Null(), true
		}
		return types.Number(t), true
	case float32:
		return types.Number(float64(t)), true
	case int:
		return types.Number(float64(t)), true
	case int64:
		return types.Number(float64(t)), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return types.Null(), false
		}
		return types.Number(f), true
	default:
		return types.Null(), false
	}
}

func toID(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(t), nil
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case json.Number:
		return t.Int64()
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid record id %q: %w", t, err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("invalid record id type %T", v)
	}
}
