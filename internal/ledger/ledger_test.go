package ledger

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestBlake2b(t *testing.T) {
	t.Run("blake2b-256 of empty input matches reference digest", func(t *testing.T) {
		h := Blake2b256(nil)
		assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", h.String())
	})

	t.Run("blake2b-224 produces a 28 byte digest", func(t *testing.T) {
		h := Blake2b224([]byte("script"))
		assert.Len(t, h.String(), 56)
	})
}

func TestHash32FromHex(t *testing.T) {
	t.Run("decodes a valid hash", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0xab}, 32)
		h, err := Hash32FromHex(hex.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, h[:])
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := Hash32FromHex("abcd")
		assert.ErrorIs(t, err, ErrInvalidHashLength)
	})

	t.Run("rejects non hex input", func(t *testing.T) {
		_, err := Hash32FromHex("zz")
		assert.Error(t, err)
	})
}

func TestEncodeChunkedBytes(t *testing.T) {
	t.Run("short strings use a definite head", func(t *testing.T) {
		assert.Equal(t, []byte{0x42, 0x01, 0x02}, EncodeChunkedBytes([]byte{0x01, 0x02}, 64))
	})

	t.Run("long strings are split into 64 byte chunks", func(t *testing.T) {
		data := bytes.Repeat([]byte{0x07}, 65)
		out := EncodeChunkedBytes(data, 64)

		assert.Equal(t, byte(0x5f), out[0])
		assert.Equal(t, []byte{0x58, 0x40}, out[1:3])
		assert.Equal(t, []byte{0x41, 0x07, 0xff}, out[len(out)-3:])
		assert.Len(t, out, 1+2+64+1+1+1)
	})
}

func TestEncodeLanguageViews(t *testing.T) {
	t.Run("plutus v1 uses the double encoded form", func(t *testing.T) {
		out, err := EncodeLanguageViews(CostModels{PlutusV1: {1, 2}})
		require.NoError(t, err)
		assert.Equal(t, mustHex(t, "a14100449f0102ff"), out)
	})

	t.Run("plutus v2 key sorts before plutus v1", func(t *testing.T) {
		out, err := EncodeLanguageViews(CostModels{PlutusV1: {1, 2}, PlutusV2: {3, 4}})
		require.NoError(t, err)
		assert.Equal(t, mustHex(t, "a2018203044100449f0102ff"), out)
	})

	t.Run("negative parameters are encoded as negative integers", func(t *testing.T) {
		out, err := EncodeLanguageViews(CostModels{PlutusV2: {-1}})
		require.NoError(t, err)
		assert.Equal(t, mustHex(t, "a1018120"), out)
	})

	t.Run("unknown language is rejected", func(t *testing.T) {
		_, err := EncodeLanguageViews(CostModels{Language(9): {1}})
		assert.ErrorIs(t, err, ErrUnknownLanguage)
	})
}

func TestScriptDataHash(t *testing.T) {
	datum := Datum{0x01}
	redeemer := Redeemer{Tag: RedeemerTagSpend, Index: 0, Data: Datum{0x00}, ExUnits: ExUnits{Memory: 10, Steps: 20}}
	costModels := CostModels{PlutusV2: {1, 2, 3}}

	t.Run("no redeemers and no datums yields no hash", func(t *testing.T) {
		h, err := ScriptDataHash(nil, nil, costModels)
		require.NoError(t, err)
		assert.Nil(t, h)
	})

	t.Run("datums only hash an empty redeemer list and empty views", func(t *testing.T) {
		h, err := ScriptDataHash(nil, []Datum{datum}, costModels)
		require.NoError(t, err)
		require.NotNil(t, h)

		expected := Blake2b256(mustHex(t, "808101a0"))
		assert.Equal(t, expected, *h)
	})

	t.Run("redeemers, datums and views are concatenated", func(t *testing.T) {
		h, err := ScriptDataHash([]Redeemer{redeemer}, []Datum{datum}, costModels)
		require.NoError(t, err)
		require.NotNil(t, h)

		redeemers, err := Marshal([]Redeemer{redeemer})
		require.NoError(t, err)
		views, err := EncodeLanguageViews(costModels)
		require.NoError(t, err)

		preimage := append(append(redeemers, 0x81, 0x01), views...)
		assert.Equal(t, Blake2b256(preimage), *h)
	})

	t.Run("is a pure function of its inputs", func(t *testing.T) {
		first, err := ScriptDataHash([]Redeemer{redeemer}, []Datum{datum}, costModels)
		require.NoError(t, err)
		second, err := ScriptDataHash([]Redeemer{redeemer}, []Datum{datum}, costModels)
		require.NoError(t, err)
		assert.Equal(t, *first, *second)

		other, err := ScriptDataHash([]Redeemer{redeemer}, []Datum{datum}, CostModels{PlutusV2: {9}})
		require.NoError(t, err)
		assert.NotEqual(t, *first, *other)
	})
}

func TestWitnessSet_Merge(t *testing.T) {
	r0 := Redeemer{Tag: RedeemerTagSpend, Index: 0, Data: Datum{0x00}}
	r1 := Redeemer{Tag: RedeemerTagMint, Index: 0, Data: Datum{0x00}}

	t.Run("union keeps one copy of shared entries", func(t *testing.T) {
		a := WitnessSet{PlutusData: []Datum{{0x01}}, Redeemers: []Redeemer{r0}}
		b := WitnessSet{PlutusData: []Datum{{0x01}, {0x02}}, Redeemers: []Redeemer{r0, r1}}

		merged, err := a.Merge(b)
		require.NoError(t, err)
		assert.Equal(t, []Datum{{0x01}, {0x02}}, merged.PlutusData)
		assert.Equal(t, []Redeemer{r0, r1}, merged.Redeemers)
	})

	t.Run("never overwrites the receiver's entries", func(t *testing.T) {
		a := WitnessSet{PlutusV2Scripts: [][]byte{{0xaa}}}
		b := WitnessSet{PlutusV2Scripts: [][]byte{{0xbb}}}

		merged, err := a.Merge(b)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{{0xaa}, {0xbb}}, merged.PlutusV2Scripts)
		assert.Equal(t, [][]byte{{0xaa}}, a.PlutusV2Scripts)
	})

	t.Run("fails when a redeemer cannot be encoded", func(t *testing.T) {
		bad := Redeemer{Tag: RedeemerTagSpend}
		_, err := WitnessSet{}.Merge(WitnessSet{Redeemers: []Redeemer{bad}})
		assert.ErrorIs(t, err, ErrEmptyDatum)
	})
}

func TestPlutusScript_Hash(t *testing.T) {
	t.Run("hash depends on the language", func(t *testing.T) {
		v1, err := PlutusScript{Language: PlutusV1, Bytes: []byte{0x4e}}.Hash()
		require.NoError(t, err)
		v2, err := PlutusScript{Language: PlutusV2, Bytes: []byte{0x4e}}.Hash()
		require.NoError(t, err)

		assert.NotEqual(t, v1, v2)
		assert.Equal(t, Blake2b224([]byte{0x02, 0x4e}), v2)
	})

	t.Run("unknown language is rejected", func(t *testing.T) {
		_, err := PlutusScript{Language: Language(7)}.Hash()
		assert.ErrorIs(t, err, ErrUnknownLanguage)
	})
}

func TestTransaction_RoundTrip(t *testing.T) {
	t.Run("decoding an encoded transaction preserves body and witnesses", func(t *testing.T) {
		hash := Blake2b256([]byte("data"))
		tx := NewTransaction(TransactionBody{
			Inputs:         []TransactionInput{{TxID: Blake2b256([]byte("in")), Index: 1}},
			Outputs:        nil,
			Fee:            170000,
			ScriptDataHash: &hash,
		})
		tx.WitnessSet.PlutusData = []Datum{{0x01}}

		encoded, err := tx.Bytes()
		require.NoError(t, err)

		decoded, err := DecodeTransaction(encoded)
		require.NoError(t, err)

		assert.Equal(t, tx.Body.Inputs, decoded.Body.Inputs)
		assert.Equal(t, uint64(170000), decoded.Body.Fee)
		require.NotNil(t, decoded.Body.ScriptDataHash)
		assert.Equal(t, hash, *decoded.Body.ScriptDataHash)
		assert.Equal(t, tx.WitnessSet.PlutusData, decoded.WitnessSet.PlutusData)
		assert.True(t, decoded.IsValid)

		originalID, err := tx.Hash()
		require.NoError(t, err)
		decodedID, err := decoded.Hash()
		require.NoError(t, err)
		assert.Equal(t, originalID, decodedID)
	})

	t.Run("clone does not share the script data hash", func(t *testing.T) {
		hash := Blake2b256([]byte("a"))
		tx := NewTransaction(TransactionBody{ScriptDataHash: &hash})

		clone := tx.Clone()
		clone.Body.ScriptDataHash[0] ^= 0xff

		assert.Equal(t, hash, *tx.Body.ScriptDataHash)
	})
}

func TestTransactionBody_UnmodelledKeys(t *testing.T) {
	mustMarshal := func(v any) []byte {
		b, err := Marshal(v)
		require.NoError(t, err)
		return b
	}

	update := mustHex(t, "82a00a")
	donation := mustMarshal(uint64(5000000))
	body := EncodeMap(
		[][]byte{mustMarshal(uint64(0)), mustMarshal(uint64(1)), mustMarshal(uint64(2)), mustMarshal(uint64(6)), mustMarshal(uint64(22))},
		[][]byte{
			mustMarshal([]TransactionInput{{TxID: Blake2b256([]byte("in")), Index: 0}}),
			EncodeArray(nil),
			mustMarshal(uint64(1000)),
			update,
			donation,
		},
	)
	encoded := EncodeArray([][]byte{body, EncodeMap(nil, nil), {0xf5}, {0xf6}})

	t.Run("decoding keeps update proposals and later era fields", func(t *testing.T) {
		tx, err := DecodeTransaction(encoded)
		require.NoError(t, err)

		require.Len(t, tx.Body.Extra, 2)
		assert.Equal(t, update, []byte(tx.Body.Extra[6]))
		assert.Equal(t, donation, []byte(tx.Body.Extra[22]))
	})

	t.Run("re-encoding reproduces the bytes and the id", func(t *testing.T) {
		tx, err := DecodeTransaction(encoded)
		require.NoError(t, err)

		reencoded, err := tx.Bytes()
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(encoded), hex.EncodeToString(reencoded))

		id, err := tx.Hash()
		require.NoError(t, err)
		assert.Equal(t, Blake2b256(body), id)
	})

	t.Run("fields survive a modification of the body", func(t *testing.T) {
		tx, err := DecodeTransaction(encoded)
		require.NoError(t, err)

		modified := tx.Clone()
		hash := Blake2b256([]byte("script data"))
		modified.Body.ScriptDataHash = &hash

		reencoded, err := modified.Bytes()
		require.NoError(t, err)
		again, err := DecodeTransaction(reencoded)
		require.NoError(t, err)

		assert.Equal(t, tx.Body.Extra, again.Body.Extra)
		require.NotNil(t, again.Body.ScriptDataHash)
		assert.Equal(t, hash, *again.Body.ScriptDataHash)
	})

	t.Run("an extra key colliding with a field is rejected", func(t *testing.T) {
		b := TransactionBody{Fee: 1, Extra: map[uint64]cbor.RawMessage{2: {0x01}}}

		_, err := Marshal(b)
		assert.ErrorIs(t, err, ErrDuplicateMapKey)
	})
}

func TestWitnessSet_RedeemerForms(t *testing.T) {
	// {5: {[0, 0]: [121([]), [10, 20]]}}
	mapForm := mustHex(t, "a105a1820000"+"82d87980820a14")
	spend := Redeemer{Tag: RedeemerTagSpend, Index: 0, Data: Datum{0xd8, 0x79, 0x80}, ExUnits: ExUnits{Memory: 10, Steps: 20}}

	t.Run("map form is decoded into redeemers", func(t *testing.T) {
		var w WitnessSet
		require.NoError(t, Unmarshal(mapForm, &w))

		assert.Equal(t, []Redeemer{spend}, w.Redeemers)
		assert.True(t, w.RedeemerMapForm())
	})

	t.Run("an untouched map form is written back as read", func(t *testing.T) {
		var w WitnessSet
		require.NoError(t, Unmarshal(mapForm, &w))

		encoded, err := w.Clone().Bytes()
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(mapForm), hex.EncodeToString(encoded))
	})

	t.Run("adding redeemers switches to the list form", func(t *testing.T) {
		var w WitnessSet
		require.NoError(t, Unmarshal(mapForm, &w))

		mint := spend
		mint.Tag = RedeemerTagMint
		merged, err := w.Merge(WitnessSet{Redeemers: []Redeemer{mint}})
		require.NoError(t, err)
		assert.False(t, merged.RedeemerMapForm())

		encoded, err := merged.Bytes()
		require.NoError(t, err)

		var decoded WitnessSet
		require.NoError(t, Unmarshal(encoded, &decoded))
		assert.False(t, decoded.RedeemerMapForm())
		assert.Equal(t, []Redeemer{spend, mint}, decoded.Redeemers)
	})

	t.Run("unmodelled keys are kept", func(t *testing.T) {
		withExtra := mustHex(t, "a20481d879801863f5")

		var w WitnessSet
		require.NoError(t, Unmarshal(withExtra, &w))
		assert.Equal(t, []Datum{{0xd8, 0x79, 0x80}}, w.PlutusData)
		assert.Equal(t, cbor.RawMessage{0xf5}, w.Extra[99])

		encoded, err := w.Bytes()
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(withExtra), hex.EncodeToString(encoded))
	})
}

func TestCostModels_Only(t *testing.T) {
	all := CostModels{PlutusV1: {1}, PlutusV2: {2}, PlutusV3: {3}}

	assert.Equal(t, CostModels{PlutusV2: {2}}, all.Only(PlutusV2))
	assert.Equal(t, CostModels{PlutusV1: {1}, PlutusV3: {3}}, all.Only(PlutusV3, PlutusV1))
	assert.Empty(t, CostModels{PlutusV1: {1}}.Only(PlutusV2))
}

func TestLanguages(t *testing.T) {
	t.Run("witness set reports the languages of its scripts", func(t *testing.T) {
		w := WitnessSet{PlutusV1Scripts: [][]byte{{0x01}}, PlutusV3Scripts: [][]byte{{0x03}}}
		assert.Equal(t, []Language{PlutusV1, PlutusV3}, w.Languages())
		assert.Empty(t, WitnessSet{}.Languages())
	})

	t.Run("parses both spellings", func(t *testing.T) {
		for name, want := range map[string]Language{"PlutusV1": PlutusV1, "plutus:v2": PlutusV2, "PLUTUSV3": PlutusV3} {
			lang, err := ParseLanguage(name)
			require.NoError(t, err, name)
			assert.Equal(t, want, lang)
		}

		assert.Equal(t, "PlutusV2", PlutusV2.String())

		_, err := ParseLanguage("PlutusV4")
		assert.ErrorIs(t, err, ErrUnknownLanguage)
	})
}
