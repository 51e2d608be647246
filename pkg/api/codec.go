// Package api holds the wire messages of the listas.v1 Connect services.
//
// Messages are plain Go structs encoded as JSON. Timestamps wrap the
// protobuf well-known Timestamp and encode as RFC 3339 strings, the same
// shape as the protobuf JSON mapping. Handlers and clients live in package apiconnect.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name, matching the "json" content subtype.
const CodecName = "json"

type jsonCodec struct{}

// Codec returns the codec used by every listas.v1 handler and client.
func Codec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string {
	return CodecName
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
