package jsonwsp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Run("fills the envelope and a unique mirror id", func(t *testing.T) {
		a := NewRequest("SubmitTx", map[string]string{"submit": "84a0"})
		b := NewRequest("SubmitTx", nil)

		assert.Equal(t, TypeRequest, a.Type)
		assert.Equal(t, Version, a.Version)
		assert.Equal(t, ServiceName, a.ServiceName)
		assert.Equal(t, "SubmitTx", a.MethodName)
		assert.NotEmpty(t, a.ID())
		assert.NotEqual(t, a.ID(), b.ID())
	})

	t.Run("serializes with the wire field names", func(t *testing.T) {
		req := NewRequest("Query", map[string]any{"query": "currentEpoch"})

		raw, err := json.Marshal(req)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "jsonwsp/request", decoded["type"])
		assert.Equal(t, "ogmios", decoded["servicename"])
		assert.Equal(t, "Query", decoded["methodname"])
		assert.Equal(t, map[string]any{"id": req.ID()}, decoded["mirror"])
	})

	t.Run("omits empty args", func(t *testing.T) {
		raw, err := json.Marshal(NewRequest("RequestNext", nil))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), `"args"`)
	})
}

func TestDecode(t *testing.T) {
	t.Run("response with reflection", func(t *testing.T) {
		r, err := Decode([]byte(`{"type":"jsonwsp/response","version":"1.0","servicename":"ogmios","methodname":"SubmitTx","result":{"SubmitSuccess":{"txId":"ab"}},"reflection":{"id":"42"}}`))
		require.NoError(t, err)

		assert.Equal(t, "42", r.ID())
		assert.Equal(t, "SubmitTx", r.MethodName)
		assert.JSONEq(t, `{"SubmitSuccess":{"txId":"ab"}}`, string(r.Result))
		assert.NoError(t, r.Err())
	})

	t.Run("fault wraps ErrFault", func(t *testing.T) {
		r, err := Decode([]byte(`{"type":"jsonwsp/fault","version":"1.0","servicename":"ogmios","fault":{"code":"client","string":"Invalid request"},"reflection":{"id":"7"}}`))
		require.NoError(t, err)

		assert.True(t, r.IsFault())
		assert.Equal(t, "7", r.ID())
		assert.ErrorIs(t, r.Err(), ErrFault)
		assert.Contains(t, r.Err().Error(), "Invalid request")
	})

	t.Run("missing reflection yields empty id", func(t *testing.T) {
		r, err := Decode([]byte(`{"type":"jsonwsp/response","result":null}`))
		require.NoError(t, err)
		assert.Empty(t, r.ID())
	})

	t.Run("rejects other envelope types", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"jsonwsp/request"}`))
		assert.ErrorIs(t, err, ErrUnexpectedType)
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		_, err := Decode([]byte(`not json`))
		assert.Error(t, err)
	})
}

func TestSplitTagged(t *testing.T) {
	t.Run("returns the single key and payload", func(t *testing.T) {
		key, payload, err := SplitTagged([]byte(`{"SubmitSuccess":{"txId":"ab"}}`))
		require.NoError(t, err)
		assert.Equal(t, "SubmitSuccess", key)
		assert.JSONEq(t, `{"txId":"ab"}`, string(payload))
	})

	t.Run("rejects empty and ambiguous objects", func(t *testing.T) {
		for _, raw := range []string{`{}`, `{"a":1,"b":2}`, `[]`} {
			_, _, err := SplitTagged([]byte(raw))
			assert.Error(t, err, raw)
		}
	})
}
