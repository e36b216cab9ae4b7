package api

import (
	"strings"
	"testing"
	"time"
)

func TestCodec_Timestamp(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	msg := &User{ID: "u1", Email: "ana@example.com", CreatedAt: NewTimestamp(when.UnixMilli())}

	data, err := Codec{}.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"createdAt":"2024-03-01T12:30:00Z"`) {
		t.Errorf("unexpected encoding: %s", data)
	}

	var got User
	if err := (Codec{}).Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.CreatedAt.AsTime().Equal(when) || got.CreatedAt.UnixMilli() != when.UnixMilli() {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt.AsTime(), when)
	}
}

func TestCodec_OmitsUnsetTimestamp(t *testing.T) {
	data, err := Codec{}.Marshal(&User{ID: "u1", CreatedAt: NewTimestamp(0)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "createdAt") {
		t.Errorf("unset timestamp should be omitted: %s", data)
	}
}

func TestCodec_Unmarshal(t *testing.T) {
	var empty UpsertIngredientRequest
	if err := (Codec{}).Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty body: %v", err)
	}

	var req UpsertIngredientRequest
	if err := (Codec{}).Unmarshal([]byte(`{"name":"Açúcar","packageQuantity":1000,"packageUnit":"g","priceText":"R$ 5,50"}`), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if req.Name != "Açúcar" || req.PackageQuantity != 1000 || req.PriceText != "R$ 5,50" {
		t.Errorf("unexpected message: %+v", req)
	}

	if err := (Codec{}).Unmarshal([]byte(`{"createdAt":"yesterday"}`), &User{}); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}
