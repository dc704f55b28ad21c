// Package jsonwsp implements the JSON-WSP 1.0 envelopes spoken by Ogmios and
// echoed by Blockfrost's evaluation endpoint. Requests carry a mirror object
// that the server reflects back, which is how responses are correlated.
package jsonwsp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Envelope types and constants of the protocol.
const (
	TypeRequest  = "jsonwsp/request"
	TypeResponse = "jsonwsp/response"
	TypeFault    = "jsonwsp/fault"

	Version     = "1.0"
	ServiceName = "ogmios"
)

var (
	// ErrFault indicates that the remote service answered with a fault envelope.
	ErrFault = errors.New("service fault")

	// ErrUnexpectedType indicates an envelope whose type is neither a response nor a fault.
	ErrUnexpectedType = errors.New("unexpected envelope type")
)

// Mirror is the correlation object reflected back by the server.
type Mirror struct {
	ID string `json:"id"`
}

// Request is an outgoing JSON-WSP request.
type Request struct {
	Type        string `json:"type"`
	Version     string `json:"version"`
	ServiceName string `json:"servicename"`
	MethodName  string `json:"methodname"`
	Args        any    `json:"args,omitempty"`
	Mirror      Mirror `json:"mirror"`
}

// NewRequest builds a request for method with a fresh correlation id.
func NewRequest(method string, args any) Request {
	return Request{
		Type:        TypeRequest,
		Version:     Version,
		ServiceName: ServiceName,
		MethodName:  method,
		Args:        args,
		Mirror:      Mirror{ID: uuid.NewString()},
	}
}

// ID returns the request's correlation id.
func (r Request) ID() string {
	return r.Mirror.ID
}

// Fault is the error object of a fault envelope.
type Fault struct {
	Code   string `json:"code"`
	String string `json:"string"`
}

// Response is an incoming JSON-WSP response or fault.
type Response struct {
	Type        string          `json:"type"`
	Version     string          `json:"version"`
	ServiceName string          `json:"servicename"`
	MethodName  string          `json:"methodname"`
	Result      json.RawMessage `json:"result"`
	Fault       *Fault          `json:"fault"`
	Reflection  *Mirror         `json:"reflection"`
}

// ID returns the reflected correlation id, or "" when the server sent none.
func (r Response) ID() string {
	if r.Reflection == nil {
		return ""
	}
	return r.Reflection.ID
}

// IsFault reports whether the envelope is a fault.
func (r Response) IsFault() bool {
	return r.Type == TypeFault || r.Fault != nil
}

// Err returns an error wrapping ErrFault when the envelope is a fault.
func (r Response) Err() error {
	if !r.IsFault() {
		return nil
	}
	if r.Fault == nil {
		return fmt.Errorf("%w: missing fault object", ErrFault)
	}
	return fmt.Errorf("%w: [%s] - %s", ErrFault, r.Fault.Code, r.Fault.String)
}

// SplitTagged returns the single key and payload of a tagged result object such
// as {"SubmitSuccess": {...}}.
func SplitTagged(raw json.RawMessage) (string, json.RawMessage, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return "", nil, err
	}
	if len(tagged) > 1 {
		return "", nil, fmt.Errorf("expected a single tagged result, got %d keys", len(tagged))
	}

	for key, payload := range tagged {
		return key, payload, nil
	}
	return "", nil, errors.New("empty tagged result")
}

// Decode parses a raw frame into a Response and checks its envelope type.
func Decode(data []byte) (Response, error) {
	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return Response{}, err
	}

	switch r.Type {
	case TypeResponse, TypeFault:
		return r, nil
	default:
		return r, fmt.Errorf("%w: %q", ErrUnexpectedType, r.Type)
	}
}
