package ledger

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gabapcia/txbridge/internal/pkg/types"

	"github.com/fxamacker/cbor/v2"
)

// TransactionInput references an output of a previous transaction.
type TransactionInput struct {
	_     struct{} `cbor:",toarray"`
	TxID  Hash32
	Index uint32
}

// String renders the input as "<txid>#<index>".
func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TxID, i.Index)
}

// TransactionBody is the transaction body map. Outputs, certificates and the other
// fields this module never inspects are kept as raw CBOR so they survive a round-trip.
// Keys without a field of their own (update proposals, governance fields of later
// eras) are kept in Extra and written back unchanged.
type TransactionBody struct {
	Inputs            []TransactionInput `cbor:"0,keyasint"`
	Outputs           []cbor.RawMessage  `cbor:"1,keyasint"`
	Fee               uint64             `cbor:"2,keyasint"`
	TTL               uint64             `cbor:"3,keyasint,omitempty"`
	Certificates      []cbor.RawMessage  `cbor:"4,keyasint,omitempty"`
	Withdrawals       cbor.RawMessage    `cbor:"5,keyasint,omitempty"`
	AuxiliaryDataHash *Hash32            `cbor:"7,keyasint,omitempty"`
	ValidityStart     uint64             `cbor:"8,keyasint,omitempty"`
	Mint              cbor.RawMessage    `cbor:"9,keyasint,omitempty"`
	ScriptDataHash    *Hash32            `cbor:"11,keyasint,omitempty"`
	Collateral        []TransactionInput `cbor:"13,keyasint,omitempty"`
	RequiredSigners   []Hash28           `cbor:"14,keyasint,omitempty"`
	NetworkID         *uint8             `cbor:"15,keyasint,omitempty"`
	CollateralReturn  cbor.RawMessage    `cbor:"16,keyasint,omitempty"`
	TotalCollateral   uint64             `cbor:"17,keyasint,omitempty"`
	ReferenceInputs   []TransactionInput `cbor:"18,keyasint,omitempty"`

	Extra map[uint64]cbor.RawMessage `cbor:"-"`
}

// bodyFields is TransactionBody without its codec methods.
type bodyFields TransactionBody

var bodyKeys = types.NewSet[uint64](0, 1, 2, 3, 4, 5, 7, 8, 9, 11, 13, 14, 15, 16, 17, 18)

// MarshalCBOR encodes the modelled fields together with Extra.
func (b TransactionBody) MarshalCBOR() ([]byte, error) {
	encoded, err := encMode.Marshal(bodyFields(b))
	if err != nil {
		return nil, err
	}
	return joinKeyedMap(encoded, b.Extra)
}

// UnmarshalCBOR decodes the modelled fields and keeps every other key in Extra.
func (b *TransactionBody) UnmarshalCBOR(data []byte) error {
	var fields bodyFields
	if err := decMode.Unmarshal(data, &fields); err != nil {
		return err
	}

	_, extra, err := splitKeyedMap(data, bodyKeys)
	if err != nil {
		return err
	}

	fields.Extra = extra
	*b = TransactionBody(fields)
	return nil
}

// Hash returns the transaction id: blake2b-256 over the encoded body.
func (b TransactionBody) Hash() (Hash32, error) {
	data, err := Marshal(b)
	if err != nil {
		return Hash32{}, err
	}
	return Blake2b256(data), nil
}

// Transaction is the full transaction: [body, witness_set, is_valid, auxiliary_data].
type Transaction struct {
	_             struct{} `cbor:",toarray"`
	Body          TransactionBody
	WitnessSet    WitnessSet
	IsValid       bool
	AuxiliaryData cbor.RawMessage
}

// NewTransaction returns a valid transaction with the given body and an empty witness set.
func NewTransaction(body TransactionBody) Transaction {
	return Transaction{Body: body, IsValid: true}
}

// DecodeTransaction parses a serialized transaction.
func DecodeTransaction(data []byte) (Transaction, error) {
	var tx Transaction
	if err := Unmarshal(data, &tx); err != nil {
		return Transaction{}, fmt.Errorf("decode transaction: %w", err)
	}
	return tx, nil
}

// Bytes serializes the transaction.
func (t Transaction) Bytes() ([]byte, error) {
	return Marshal(t)
}

// Hash returns the transaction id.
func (t Transaction) Hash() (Hash32, error) {
	return t.Body.Hash()
}

// Clone returns a copy of t that can be modified without touching the original.
func (t Transaction) Clone() Transaction {
	out := t
	out.Body.Inputs = slices.Clone(t.Body.Inputs)
	out.Body.Outputs = slices.Clone(t.Body.Outputs)
	out.Body.Extra = maps.Clone(t.Body.Extra)
	if t.Body.ScriptDataHash != nil {
		h := *t.Body.ScriptDataHash
		out.Body.ScriptDataHash = &h
	}
	out.WitnessSet = t.WitnessSet.Clone()
	return out
}
