package metrics

import (
	"encoding/json"
	"testing"
)

func TestValidateRecord(t *testing.T) {
	var raw map[string]any
	body := `{"id": 7, "code": "AAPL", "price": 150.5, "marketCap": null, "extra": 1, "eps": [1,2]}`
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatal(err)
	}
	rec, dropped, err := ValidateRecord(raw)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 7 {
		t.Fatalf("id=%d", rec.ID)
	}
	if rec.Code() != "AAPL" {
		t.Fatalf("code=%q", rec.Code())
	}
	if f, ok := rec.Get("price").Float(); !ok || f != 150.5 {
		t.Fatalf("price=%v", rec.Get("price"))
	}
	if !rec.Get("marketCap").IsNull() {
		t.Fatal("marketCap should be null")
	}
	if !rec.Get("eps").IsNull() {
		t.Fatal("non-scalar eps should be stored as null")
	}
	if _, ok := rec.Fields["extra"]; ok {
		t.Fatal("unknown key should be dropped")
	}
	if len(dropped) != 2 || dropped[0] != "eps" || dropped[1] != "extra" {
		t.Fatalf("dropped=%v", dropped)
	}
}

func TestValidateRecordBadID(t *testing.T) {
	if _, _, err := ValidateRecord(map[string]any{"id": "abc"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
