package api

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp is a protobuf Timestamp that encodes to JSON as an RFC 3339
// string, following the protobuf JSON mapping.
type Timestamp struct {
	*timestamppb.Timestamp
}

// NewTimestamp returns t as a Timestamp.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Timestamp: timestamppb.New(t)}
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.Timestamp == nil {
		return []byte("null"), nil
	}
	data, err := protojson.Marshal(t.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("marshal timestamp: %w", err)
	}
	return data, nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Timestamp = nil
		return nil
	}
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(data, ts); err != nil {
		return fmt.Errorf("unmarshal timestamp: %w", err)
	}
	t.Timestamp = ts
	return nil
}
