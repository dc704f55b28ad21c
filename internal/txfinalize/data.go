package txfinalize

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/gabapcia/txbridge/internal/ledger"

	"github.com/fxamacker/cbor/v2"
)

// bytesChunkSize is the largest byte string Plutus accepts without chunking.
const bytesChunkSize = 64

var (
	// ErrNilData is returned when a PlutusData tree contains a nil node.
	ErrNilData = errors.New("nil plutus data")

	// ErrInvalidRedeemerTag is returned for a redeemer whose tag is not spend, mint, cert or reward.
	ErrInvalidRedeemerTag = errors.New("invalid redeemer tag")

	// ErrEmptyScript is returned for a script without bytes.
	ErrEmptyScript = errors.New("empty script")

	// ErrDuplicateRedeemer is returned when two redeemers point at the same script purpose.
	ErrDuplicateRedeemer = errors.New("duplicate redeemer")
)

// PlutusData is the domain representation of on-chain data.
// The concrete types are Constr, Map, List, Integer and Bytes.
type PlutusData interface {
	toWire() ([]byte, error)
}

// Constr is a constructor application: an alternative index and its fields.
type Constr struct {
	Alternative uint64
	Fields      []PlutusData
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   PlutusData
	Value PlutusData
}

// Map is an association list; entry order is preserved on the wire.
type Map []MapEntry

// List is an ordered list of data.
type List []PlutusData

// Integer is an arbitrary precision integer.
type Integer struct {
	Value *big.Int
}

// NewInteger wraps an int64.
func NewInteger(n int64) Integer {
	return Integer{Value: big.NewInt(n)}
}

// Bytes is a byte string.
type Bytes []byte

// RawData is data that is already encoded, such as a datum read back from a
// witness set. Its bytes are used verbatim.
type RawData ledger.Datum

// EncodeData converts a PlutusData value to a ledger datum.
func EncodeData(d PlutusData) (ledger.Datum, error) {
	if d == nil {
		return nil, ErrNilData
	}

	b, err := d.toWire()
	if err != nil {
		return nil, err
	}
	return ledger.Datum(b), nil
}

func encodeList(items []PlutusData) ([]byte, error) {
	encoded := make([][]byte, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilData, i)
		}

		b, err := item.toWire()
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}

	// Non-empty lists use the indefinite form, as the reference serializer does.
	if len(encoded) == 0 {
		return ledger.EncodeArray(nil), nil
	}
	return ledger.EncodeIndefiniteArray(encoded), nil
}

// constrTag maps an alternative to its CBOR tag. Alternatives 0-6 use tags
// 121-127, 7-127 use 1280-1400, and anything larger uses the general tag 102.
func constrTag(alternative uint64) (tag uint64, compact bool) {
	switch {
	case alternative < 7:
		return 121 + alternative, true
	case alternative < 128:
		return 1280 + alternative - 7, true
	default:
		return 102, false
	}
}

func (c Constr) toWire() ([]byte, error) {
	fields, err := encodeList(c.Fields)
	if err != nil {
		return nil, fmt.Errorf("constr %d: %w", c.Alternative, err)
	}

	tag, compact := constrTag(c.Alternative)
	if compact {
		return ledger.Marshal(cbor.Tag{Number: tag, Content: cbor.RawMessage(fields)})
	}

	alternative, err := ledger.Marshal(c.Alternative)
	if err != nil {
		return nil, err
	}
	return ledger.Marshal(cbor.Tag{
		Number:  tag,
		Content: cbor.RawMessage(ledger.EncodeArray([][]byte{alternative, fields})),
	})
}

func (m Map) toWire() ([]byte, error) {
	keys := make([][]byte, len(m))
	values := make([][]byte, len(m))
	for i, entry := range m {
		if entry.Key == nil || entry.Value == nil {
			return nil, fmt.Errorf("%w in map entry %d", ErrNilData, i)
		}

		var err error
		if keys[i], err = entry.Key.toWire(); err != nil {
			return nil, err
		}
		if values[i], err = entry.Value.toWire(); err != nil {
			return nil, err
		}
	}
	return ledger.EncodeMap(keys, values), nil
}

func (l List) toWire() ([]byte, error) {
	return encodeList(l)
}

func (i Integer) toWire() ([]byte, error) {
	if i.Value == nil {
		return nil, fmt.Errorf("%w: integer without value", ErrNilData)
	}
	return ledger.Marshal(i.Value)
}

func (b Bytes) toWire() ([]byte, error) {
	return ledger.EncodeChunkedBytes(b, bytesChunkSize), nil
}

func (r RawData) toWire() ([]byte, error) {
	if len(r) == 0 {
		return nil, ledger.ErrEmptyDatum
	}
	if err := cbor.Wellformed(r); err != nil {
		return nil, fmt.Errorf("raw data: %w", err)
	}
	return r, nil
}

// Redeemer is the domain form of a redeemer before it is placed in a witness set.
type Redeemer struct {
	Tag     ledger.RedeemerTag
	Index   uint32
	Data    PlutusData
	ExUnits ledger.ExUnits
}

func (r Redeemer) toWire() (ledger.Redeemer, error) {
	if !r.Tag.Valid() {
		return ledger.Redeemer{}, fmt.Errorf("%w: %d", ErrInvalidRedeemerTag, r.Tag)
	}

	data, err := EncodeData(r.Data)
	if err != nil {
		return ledger.Redeemer{}, fmt.Errorf("redeemer %s:%d: %w", r.Tag, r.Index, err)
	}

	return ledger.Redeemer{
		Tag:     r.Tag,
		Index:   r.Index,
		Data:    data,
		ExUnits: r.ExUnits,
	}, nil
}

// PlutusScript is a compiled script as handed over by the caller.
type PlutusScript struct {
	Language ledger.Language
	Bytes    []byte
}

func (s PlutusScript) toWire() (ledger.PlutusScript, error) {
	if !s.Language.Valid() {
		return ledger.PlutusScript{}, fmt.Errorf("%w: %d", ledger.ErrUnknownLanguage, s.Language)
	}
	if len(s.Bytes) == 0 {
		return ledger.PlutusScript{}, ErrEmptyScript
	}
	return ledger.PlutusScript{Language: s.Language, Bytes: s.Bytes}, nil
}
