package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MetricDefinition describes one column of the stats table.
type MetricDefinition struct {
	Key         string
	DisplayName string
	Category    string
}

type valueKind uint8

const (
	kindNull valueKind = iota
	kindNumber
	kindString
)

// Value is a single record field: a number, a string or null.
// The zero Value is null.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

func Null() Value              { return Value{} }
func Number(f float64) Value   { return Value{kind: kindNumber, num: f} }
func String(s string) Value    { return Value{kind: kindString, str: s} }
func (v Value) IsNull() bool   { return v.kind == kindNull }
func (v Value) IsNumber() bool { return v.kind == kindNumber }
func (v Value) IsString() bool { return v.kind == kindString }

// Float returns the numeric value and whether v holds a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == kindNumber
}

// Text returns the string value and whether v holds a string.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == kindString
}

// String renders the raw value without any metric formatting.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindString:
		return v.str
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return json.Marshal(v.num)
	case kindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("value must be number, string or null: %s", data)
		}
		*v = Number(f)
		return nil
	}
}

// Record is one row of the stats table, keyed by metric key.
// ID is the server-side identifier used for removal.
type Record struct {
	ID     int64
	Fields map[string]Value
}

// Get returns the field for key, or null when absent.
func (r Record) Get(key string) Value {
	if r.Fields == nil {
		return Null()
	}
	return r.Fields[key]
}

// Code returns the stock code field.
func (r Record) Code() string {
	s, _ := r.Get("code").Text()
	return s
}

// Country returns the country field.
func (r Record) Country() string {
	s, _ := r.Get("country").Text()
	return s
}

// SortDirection is the order applied to a sort column.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) Toggle() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortSpec names the sort column; an empty Column leaves input order untouched.
type SortSpec struct {
	Column    string
	Direction SortDirection
}
