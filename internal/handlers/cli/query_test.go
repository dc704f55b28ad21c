package cli

import (
	"testing"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/querybackend"
	querybackendtest "github.com/gabapcia/txbridge/internal/querybackend/mocks"
	txtrackertest "github.com/gabapcia/txbridge/internal/txtracker/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmedCommand(t *testing.T) {
	for _, confirmed := range []bool{true, false} {
		backend := querybackendtest.NewBackend(t)
		backend.EXPECT().IsConfirmed(mock.Anything, testHash).Return(confirmed, nil).Once()

		out, err := runApp(t, backend, txtrackertest.NewService(t), "confirmed", "--tx", testHash.String())
		require.NoError(t, err)

		if confirmed {
			assert.Equal(t, "true\n", out)
		} else {
			assert.Equal(t, "false\n", out)
		}
	}
}

func TestMetadataCommand(t *testing.T) {
	t.Run("prints labels with hex values", func(t *testing.T) {
		backend := querybackendtest.NewBackend(t)
		backend.EXPECT().GetMetadata(mock.Anything, testHash).Return(querybackend.Metadata{
			674: {0x62, 0x68, 0x69},
			1:   {0x05},
		}, nil).Once()

		out, err := runApp(t, backend, txtrackertest.NewService(t), "metadata", "--tx", testHash.String())
		require.NoError(t, err)
		assert.JSONEq(t, `{"1":"05","674":"626869"}`, out)
	})

	t.Run("returns the metadata error", func(t *testing.T) {
		backend := querybackendtest.NewBackend(t)
		backend.EXPECT().GetMetadata(mock.Anything, testHash).
			Return(nil, &querybackend.MetadataError{Kind: querybackend.MetadataEmptyOrMissing}).Once()

		_, err := runApp(t, backend, txtrackertest.NewService(t), "metadata", "--tx", testHash.String())
		assert.Equal(t, querybackend.MetadataEmptyOrMissing, querybackend.MetadataErrorKindOf(err))
	})
}

func TestUtxosCommand(t *testing.T) {
	t.Run("prints outputs ordered by reference", func(t *testing.T) {
		first := ledger.Hash32{0x01}
		second := ledger.Hash32{0x02}

		backend := querybackendtest.NewBackend(t)
		backend.EXPECT().UtxosAt(mock.Anything, "addr_test1").Return(querybackend.UtxoSet{
			{TxID: second, Index: 0}: {Address: "addr_test1", Value: querybackend.Value{Coins: 3}},
			{TxID: first, Index: 1}:  {Address: "addr_test1", Value: querybackend.Value{Coins: 2}},
			{TxID: first, Index: 0}:  {Address: "addr_test1", Value: querybackend.Value{Coins: 1, Assets: map[string]uint64{"policy.asset": 7}}},
		}, nil).Once()

		out, err := runApp(t, backend, txtrackertest.NewService(t), "utxos", "--address", "addr_test1")
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"txId":"`+first.String()+`","index":0,"output":{"address":"addr_test1","value":{"coins":1,"assets":{"policy.asset":7}}}},
			{"txId":"`+first.String()+`","index":1,"output":{"address":"addr_test1","value":{"coins":2}}},
			{"txId":"`+second.String()+`","index":0,"output":{"address":"addr_test1","value":{"coins":3}}}
		]`, out)
	})

	t.Run("requires an address", func(t *testing.T) {
		_, err := runApp(t, querybackendtest.NewBackend(t), txtrackertest.NewService(t), "utxos")
		assert.Error(t, err)
	})
}
