package api

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Codec marshals messages as JSON. It is registered under the name "json",
// which Connect maps to the application/json content type.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero
// message, as it does for protojson.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}

// Timestamp is a point in time that travels as an RFC 3339 string.
type Timestamp struct {
	ts *timestamppb.Timestamp
}

// NewTimestamp converts unix milliseconds. Zero yields nil, so unset times
// are omitted from messages.
func NewTimestamp(unixMilli int64) *Timestamp {
	if unixMilli == 0 {
		return nil
	}
	return &Timestamp{ts: timestamppb.New(time.UnixMilli(unixMilli))}
}

// AsTime returns the time in UTC. A nil Timestamp is the zero time.
func (t *Timestamp) AsTime() time.Time {
	if t == nil || t.ts == nil {
		return time.Time{}
	}
	return t.ts.AsTime()
}

// UnixMilli returns the time in unix milliseconds, or 0 for nil.
func (t *Timestamp) UnixMilli() int64 {
	if t == nil || t.ts == nil {
		return 0
	}
	return t.ts.AsTime().UnixMilli()
}

// MarshalJSON implements json.Marshaler.
func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.ts == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.ts)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(data, ts); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	t.ts = ts
	return nil
}
