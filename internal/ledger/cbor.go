// Package ledger holds the on-chain data structures exchanged with the backends
// and the CBOR codec and hashing primitives they are built on.
//
// Structures mirror the Alonzo/Babbage CDDL: maps with small integer keys are
// modelled as structs tagged with `keyasint`, positional arrays use `toarray`.
package ledger

import (
	"errors"
	"fmt"

	"github.com/gabapcia/txbridge/internal/pkg/types"

	"github.com/fxamacker/cbor/v2"
)

// ErrDuplicateMapKey is returned when a preserved map entry collides with a modelled field.
var ErrDuplicateMapKey = errors.New("duplicate map key")

const (
	cborMajorBytes = 0x40
	cborMajorArray = 0x80
	cborMajorMap   = 0xa0

	cborIndefiniteBytes = 0x5f
	cborIndefiniteArray = 0x9f
	cborBreak           = 0xff
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		BigIntConvert: cbor.BigIntConvertShortest,
		NilContainers: cbor.NilContainerAsEmpty,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		MaxArrayElements: 1 << 20,
		MaxMapPairs:      1 << 20,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal encodes v with the deterministic encoding used for everything that gets hashed.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// appendHeader appends a CBOR head for the given major type and argument.
func appendHeader(dst []byte, major byte, n uint64) []byte {
	switch {
	case n < 24:
		return append(dst, major|byte(n))
	case n <= 0xff:
		return append(dst, major|24, byte(n))
	case n <= 0xffff:
		return append(dst, major|25, byte(n>>8), byte(n))
	case n <= 0xffffffff:
		return append(dst, major|26, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		return append(dst, major|27,
			byte(n>>56), byte(n>>48), byte(n>>40), byte(n>>32),
			byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	}
}

// EncodeArray concatenates already-encoded items under a definite-length array head.
func EncodeArray(items [][]byte) []byte {
	out := appendHeader(nil, cborMajorArray, uint64(len(items)))
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

// EncodeIndefiniteArray concatenates already-encoded items inside an indefinite-length array.
func EncodeIndefiniteArray(items [][]byte) []byte {
	out := []byte{cborIndefiniteArray}
	for _, item := range items {
		out = append(out, item...)
	}
	return append(out, cborBreak)
}

// EncodeMap writes already-encoded key/value pairs, in the given order, under a map head.
func EncodeMap(keys, values [][]byte) []byte {
	out := appendHeader(nil, cborMajorMap, uint64(len(keys)))
	for i := range keys {
		out = append(out, keys[i]...)
		out = append(out, values[i]...)
	}
	return out
}

// EncodeChunkedBytes encodes b as a byte string, splitting it into an indefinite
// sequence of chunks when it is longer than chunkSize.
func EncodeChunkedBytes(b []byte, chunkSize int) []byte {
	if len(b) <= chunkSize {
		out := appendHeader(nil, cborMajorBytes, uint64(len(b)))
		return append(out, b...)
	}

	out := []byte{cborIndefiniteBytes}
	for start := 0; start < len(b); start += chunkSize {
		end := min(start+chunkSize, len(b))
		out = appendHeader(out, cborMajorBytes, uint64(end-start))
		out = append(out, b[start:end]...)
	}
	return append(out, cborBreak)
}

// splitKeyedMap decodes an integer-keyed CBOR map and separates the entries
// whose key is in known from the rest. Values stay in their original encoding.
func splitKeyedMap(data []byte, known types.Set[uint64]) (fields, extra map[uint64]cbor.RawMessage, err error) {
	if err := decMode.Unmarshal(data, &fields); err != nil {
		return nil, nil, err
	}

	for key, value := range fields {
		if known.Has(key) {
			continue
		}
		if extra == nil {
			extra = make(map[uint64]cbor.RawMessage)
		}
		extra[key] = value
		delete(fields, key)
	}
	return fields, extra, nil
}

// joinKeyedMap adds extra entries to an encoded integer-keyed map and
// re-encodes it with canonical key order.
func joinKeyedMap(encoded []byte, extra map[uint64]cbor.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return encoded, nil
	}

	var fields map[uint64]cbor.RawMessage
	if err := decMode.Unmarshal(encoded, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[uint64]cbor.RawMessage, len(extra))
	}

	for key, value := range extra {
		if _, taken := fields[key]; taken {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateMapKey, key)
		}
		fields[key] = value
	}
	return encMode.Marshal(fields)
}
