package ledger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gabapcia/txbridge/internal/pkg/types"

	"github.com/fxamacker/cbor/v2"
)

var (
	// ErrEmptyDatum is returned when encoding a datum that carries no bytes.
	ErrEmptyDatum = errors.New("empty datum")

	// ErrUnknownLanguage is returned for a Plutus language the ledger does not define.
	ErrUnknownLanguage = errors.New("unknown plutus language")
)

// Datum is an encoded PlutusData value. Its bytes are the exact CBOR placed
// in the witness set, so DatumHash is always derived from them.
type Datum []byte

// MarshalCBOR writes the datum bytes verbatim.
func (d Datum) MarshalCBOR() ([]byte, error) {
	if len(d) == 0 {
		return nil, ErrEmptyDatum
	}
	return d, nil
}

// UnmarshalCBOR stores a copy of the encoded data item.
func (d *Datum) UnmarshalCBOR(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// Hash returns the datum hash: blake2b-256 over the encoded bytes.
func (d Datum) Hash() Hash32 {
	return Blake2b256(d)
}

// RedeemerTag identifies which part of the body a redeemer points into.
type RedeemerTag uint8

const (
	RedeemerTagSpend RedeemerTag = iota
	RedeemerTagMint
	RedeemerTagCert
	RedeemerTagReward
)

var redeemerTagNames = map[RedeemerTag]string{
	RedeemerTagSpend:  "spend",
	RedeemerTagMint:   "mint",
	RedeemerTagCert:   "certificate",
	RedeemerTagReward: "withdrawal",
}

// String returns the name used by the query services for the tag ("spend", "mint", ...).
func (t RedeemerTag) String() string {
	if name, ok := redeemerTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Valid reports whether t is one of the known tags.
func (t RedeemerTag) Valid() bool {
	_, ok := redeemerTagNames[t]
	return ok
}

// ParseRedeemerTag maps a service-side tag name back to a RedeemerTag.
// Both the long and the short ("cert", "reward") spellings are accepted.
func ParseRedeemerTag(s string) (RedeemerTag, error) {
	switch s {
	case "spend":
		return RedeemerTagSpend, nil
	case "mint":
		return RedeemerTagMint, nil
	case "certificate", "cert", "publish":
		return RedeemerTagCert, nil
	case "withdrawal", "reward", "withdraw":
		return RedeemerTagReward, nil
	default:
		return 0, fmt.Errorf("unknown redeemer tag %q", s)
	}
}

// ExUnits is the execution budget of a script.
type ExUnits struct {
	_      struct{} `cbor:",toarray"`
	Memory uint64   `json:"memory"`
	Steps  uint64   `json:"steps"`
}

// Redeemer is the wire form of a redeemer: [tag, index, data, ex_units].
type Redeemer struct {
	_       struct{} `cbor:",toarray"`
	Tag     RedeemerTag
	Index   uint32
	Data    Datum
	ExUnits ExUnits
}

// Language is a Plutus language version as numbered by the ledger.
type Language uint8

const (
	PlutusV1 Language = iota
	PlutusV2
	PlutusV3
)

// Valid reports whether l is a known Plutus language.
func (l Language) Valid() bool {
	return l <= PlutusV3
}

// String returns the protocol parameter name of the language ("PlutusV2").
func (l Language) String() string {
	if !l.Valid() {
		return fmt.Sprintf("language(%d)", uint8(l))
	}
	return fmt.Sprintf("PlutusV%d", uint8(l)+1)
}

// ParseLanguage accepts the protocol parameter names ("PlutusV1") and the
// query service spelling ("plutus:v1").
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "plutusv1", "plutus:v1":
		return PlutusV1, nil
	case "plutusv2", "plutus:v2":
		return PlutusV2, nil
	case "plutusv3", "plutus:v3":
		return PlutusV3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
}

// PlutusScript is a compiled Plutus script tagged with its language.
type PlutusScript struct {
	Language Language
	Bytes    []byte
}

// Hash returns the script hash: blake2b-224 over the language prefix and script bytes.
func (s PlutusScript) Hash() (Hash28, error) {
	if !s.Language.Valid() {
		return Hash28{}, fmt.Errorf("%w: %d", ErrUnknownLanguage, s.Language)
	}

	prefixed := make([]byte, 0, len(s.Bytes)+1)
	prefixed = append(prefixed, byte(s.Language)+1)
	prefixed = append(prefixed, s.Bytes...)
	return Blake2b224(prefixed), nil
}

// WitnessSet is the transaction witness set map.
//
// Redeemers are read from either the list form or the map form of later eras
// ({[tag, index] => [data, ex_units]}) and written back in the form they were
// read in, as long as they are not modified. Keys without a field are kept in
// Extra.
type WitnessSet struct {
	VKeyWitnesses      []cbor.RawMessage `cbor:"0,keyasint,omitempty"`
	NativeScripts      []cbor.RawMessage `cbor:"1,keyasint,omitempty"`
	BootstrapWitnesses []cbor.RawMessage `cbor:"2,keyasint,omitempty"`
	PlutusV1Scripts    [][]byte          `cbor:"3,keyasint,omitempty"`
	PlutusData         []Datum           `cbor:"4,keyasint,omitempty"`
	Redeemers          []Redeemer        `cbor:"5,keyasint,omitempty"`
	PlutusV2Scripts    [][]byte          `cbor:"6,keyasint,omitempty"`
	PlutusV3Scripts    [][]byte          `cbor:"7,keyasint,omitempty"`

	Extra map[uint64]cbor.RawMessage `cbor:"-"`

	redeemerMap bool
}

// witnessSetFields is WitnessSet without its codec methods.
type witnessSetFields WitnessSet

const witnessRedeemersKey = 5

var witnessKeys = types.NewSet[uint64](0, 1, 2, 3, 4, 5, 6, 7)

type redeemerKey struct {
	_     struct{} `cbor:",toarray"`
	Tag   RedeemerTag
	Index uint32
}

type redeemerValue struct {
	_       struct{} `cbor:",toarray"`
	Data    Datum
	ExUnits ExUnits
}

// RedeemerMapForm reports whether the redeemers are written in map form.
func (w WitnessSet) RedeemerMapForm() bool {
	return w.redeemerMap
}

// MarshalCBOR encodes the witness set, keeping the redeemer form it was decoded with.
func (w WitnessSet) MarshalCBOR() ([]byte, error) {
	fields := witnessSetFields(w)
	extra := w.Extra

	if w.redeemerMap && len(w.Redeemers) > 0 {
		encoded, err := encodeRedeemerMap(w.Redeemers)
		if err != nil {
			return nil, err
		}

		extra = maps.Clone(w.Extra)
		if extra == nil {
			extra = make(map[uint64]cbor.RawMessage, 1)
		}
		extra[witnessRedeemersKey] = encoded
		fields.Redeemers = nil
	}

	encoded, err := encMode.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return joinKeyedMap(encoded, extra)
}

// UnmarshalCBOR decodes a witness set with redeemers in either form.
func (w *WitnessSet) UnmarshalCBOR(data []byte) error {
	known, extra, err := splitKeyedMap(data, witnessKeys)
	if err != nil {
		return err
	}

	var (
		redeemers   []Redeemer
		redeemerMap bool
	)
	if raw, ok := known[witnessRedeemersKey]; ok {
		if redeemers, redeemerMap, err = decodeRedeemers(raw); err != nil {
			return fmt.Errorf("redeemers: %w", err)
		}
		delete(known, witnessRedeemersKey)
	}

	rest, err := encMode.Marshal(known)
	if err != nil {
		return err
	}

	var fields witnessSetFields
	if err := decMode.Unmarshal(rest, &fields); err != nil {
		return err
	}

	fields.Redeemers = redeemers
	fields.Extra = extra
	fields.redeemerMap = redeemerMap
	*w = WitnessSet(fields)
	return nil
}

func decodeRedeemers(raw cbor.RawMessage) ([]Redeemer, bool, error) {
	if len(raw) == 0 || raw[0]&0xe0 != cborMajorMap {
		var list []Redeemer
		err := decMode.Unmarshal(raw, &list)
		return list, false, err
	}

	var entries map[redeemerKey]redeemerValue
	if err := decMode.Unmarshal(raw, &entries); err != nil {
		return nil, true, err
	}

	list := make([]Redeemer, 0, len(entries))
	for k, v := range entries {
		list = append(list, Redeemer{Tag: k.Tag, Index: k.Index, Data: v.Data, ExUnits: v.ExUnits})
	}
	slices.SortFunc(list, func(a, b Redeemer) int {
		if a.Tag != b.Tag {
			return int(a.Tag) - int(b.Tag)
		}
		return int(a.Index) - int(b.Index)
	})
	return list, true, nil
}

func encodeRedeemerMap(redeemers []Redeemer) ([]byte, error) {
	entries := make(map[redeemerKey]redeemerValue, len(redeemers))
	for _, r := range redeemers {
		key := redeemerKey{Tag: r.Tag, Index: r.Index}
		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("%w: redeemer %s:%d", ErrDuplicateMapKey, r.Tag, r.Index)
		}
		entries[key] = redeemerValue{Data: r.Data, ExUnits: r.ExUnits}
	}
	return encMode.Marshal(entries)
}

// Bytes encodes the witness set.
func (w WitnessSet) Bytes() ([]byte, error) {
	return Marshal(w)
}

// Clone returns a copy of w whose slices do not alias the original.
func (w WitnessSet) Clone() WitnessSet {
	return WitnessSet{
		VKeyWitnesses:      slices.Clone(w.VKeyWitnesses),
		NativeScripts:      slices.Clone(w.NativeScripts),
		BootstrapWitnesses: slices.Clone(w.BootstrapWitnesses),
		PlutusV1Scripts:    slices.Clone(w.PlutusV1Scripts),
		PlutusData:         slices.Clone(w.PlutusData),
		Redeemers:          slices.Clone(w.Redeemers),
		PlutusV2Scripts:    slices.Clone(w.PlutusV2Scripts),
		PlutusV3Scripts:    slices.Clone(w.PlutusV3Scripts),
		Extra:              maps.Clone(w.Extra),
		redeemerMap:        w.redeemerMap,
	}
}

// Scripts returns the Plutus scripts of every language carried by w.
func (w WitnessSet) Scripts() []PlutusScript {
	var out []PlutusScript
	for lang, scripts := range [][][]byte{w.PlutusV1Scripts, w.PlutusV2Scripts, w.PlutusV3Scripts} {
		for _, s := range scripts {
			out = append(out, PlutusScript{Language: Language(lang), Bytes: s})
		}
	}
	return out
}

// Languages returns the languages of the scripts carried by w, in ledger order.
func (w WitnessSet) Languages() []Language {
	var out []Language
	for lang, scripts := range [][][]byte{w.PlutusV1Scripts, w.PlutusV2Scripts, w.PlutusV3Scripts} {
		if len(scripts) > 0 {
			out = append(out, Language(lang))
		}
	}
	return out
}

// AddScripts places each script into the field matching its language.
func (w *WitnessSet) AddScripts(scripts ...PlutusScript) error {
	for _, s := range scripts {
		switch s.Language {
		case PlutusV1:
			w.PlutusV1Scripts = append(w.PlutusV1Scripts, s.Bytes)
		case PlutusV2:
			w.PlutusV2Scripts = append(w.PlutusV2Scripts, s.Bytes)
		case PlutusV3:
			w.PlutusV3Scripts = append(w.PlutusV3Scripts, s.Bytes)
		default:
			return fmt.Errorf("%w: %d", ErrUnknownLanguage, s.Language)
		}
	}
	return nil
}

// Merge returns the per-field set union of w and other. Entries are compared by
// their encoded bytes: an element already present is kept once, and nothing in w
// is ever replaced. Adding redeemers switches them to list form, the form
// ScriptDataHash is computed over.
func (w WitnessSet) Merge(other WitnessSet) (WitnessSet, error) {
	redeemers, err := union(w.Redeemers, other.Redeemers, func(r Redeemer) (string, error) {
		b, err := Marshal(r)
		return string(b), err
	})
	if err != nil {
		return WitnessSet{}, fmt.Errorf("encode redeemer: %w", err)
	}

	return WitnessSet{
		VKeyWitnesses:      mustUnion(w.VKeyWitnesses, other.VKeyWitnesses, rawKey),
		NativeScripts:      mustUnion(w.NativeScripts, other.NativeScripts, rawKey),
		BootstrapWitnesses: mustUnion(w.BootstrapWitnesses, other.BootstrapWitnesses, rawKey),
		PlutusV1Scripts:    mustUnion(w.PlutusV1Scripts, other.PlutusV1Scripts, bytesKey),
		PlutusData:         mustUnion(w.PlutusData, other.PlutusData, func(d Datum) string { return string(d) }),
		Redeemers:          redeemers,
		PlutusV2Scripts:    mustUnion(w.PlutusV2Scripts, other.PlutusV2Scripts, bytesKey),
		PlutusV3Scripts:    mustUnion(w.PlutusV3Scripts, other.PlutusV3Scripts, bytesKey),
		Extra:              mergeExtra(w.Extra, other.Extra),
		redeemerMap:        w.redeemerMap && len(other.Redeemers) == 0,
	}, nil
}

func mergeExtra(a, b map[uint64]cbor.RawMessage) map[uint64]cbor.RawMessage {
	if len(b) == 0 {
		return maps.Clone(a)
	}

	out := maps.Clone(b)
	maps.Copy(out, a)
	return out
}

func rawKey(r cbor.RawMessage) string { return string(r) }

func bytesKey(b []byte) string { return string(b) }

func mustUnion[T any](a, b []T, key func(T) string) []T {
	out, _ := union(a, b, func(v T) (string, error) { return key(v), nil })
	return out
}

func union[T any](a, b []T, key func(T) (string, error)) ([]T, error) {
	if len(a) == 0 && len(b) == 0 {
		return nil, nil
	}

	seen := types.NewSet[string]()
	out := make([]T, 0, len(a)+len(b))
	for _, list := range [][]T{a, b} {
		for _, v := range list {
			k, err := key(v)
			if err != nil {
				return nil, err
			}

			if seen.Has(k) {
				continue
			}

			seen.Add(k)
			out = append(out, v)
		}
	}
	return out, nil
}
