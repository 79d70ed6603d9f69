// Package bridge carries palette traffic between the UI and the page worker.
//
// Frames are JSON objects discriminated by a "type" tag and broadcast on the
// event bus. Requests flow from the UI to the page, responses the other way;
// every endpoint sees every frame and drops what is not addressed to it.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"blockpalette/internal/domain"
)

// MessageType is the wire tag of a frame
type MessageType string

const (
	TypeScanRequest  MessageType = "scan-request"
	TypeSpawnRequest MessageType = "spawn-request"
	TypeCatalogReady MessageType = "catalog-ready"
)

// ErrUnknownType is returned by Decode for frames with an unrecognised tag
var ErrUnknownType = errors.New("unknown message type")

// Message is any frame that can cross the bridge
type Message interface {
	MessageType() MessageType
}

// Request is a message flowing from the UI to the page worker
type Request interface {
	Message
	isRequest()
}

// Response is a message flowing from the page worker to the UI
type Response interface {
	Message
	isResponse()
}

// ScanRequest asks the page worker for a fresh catalog
type ScanRequest struct{}

func (ScanRequest) MessageType() MessageType { return TypeScanRequest }
func (ScanRequest) isRequest()               {}

// SpawnRequest asks the page worker to place one block in the main workspace
type SpawnRequest struct {
	BlockType string `json:"blockType"`
}

func (SpawnRequest) MessageType() MessageType { return TypeSpawnRequest }
func (SpawnRequest) isRequest()               {}

// CatalogReady delivers a complete catalog
type CatalogReady struct {
	Blocks domain.Catalog `json:"blocks"`
}

func (CatalogReady) MessageType() MessageType { return TypeCatalogReady }
func (CatalogReady) isResponse()              {}

type envelope struct {
	Type MessageType `json:"type"`
}

// Encode renders a message as a tagged JSON frame
func Encode(msg Message) ([]byte, error) {
	var payload any
	switch m := msg.(type) {
	case ScanRequest:
		payload = envelope{Type: TypeScanRequest}
	case SpawnRequest:
		payload = struct {
			envelope
			SpawnRequest
		}{envelope{Type: TypeSpawnRequest}, m}
	case CatalogReady:
		if m.Blocks == nil {
			m.Blocks = domain.Catalog{}
		}
		payload = struct {
			envelope
			CatalogReady
		}{envelope{Type: TypeCatalogReady}, m}
	default:
		return nil, fmt.Errorf("cannot encode %T: %w", msg, ErrUnknownType)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", msg.MessageType(), err)
	}
	return data, nil
}

// Decode parses a frame. Frames with an unrecognised tag yield ErrUnknownType.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	switch env.Type {
	case TypeScanRequest:
		return ScanRequest{}, nil
	case TypeSpawnRequest:
		var m SpawnRequest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return m, nil
	case TypeCatalogReady:
		var m CatalogReady
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%q: %w", env.Type, ErrUnknownType)
	}
}
