package ogmios

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gabapcia/txbridge/internal/ledger"
	"github.com/gabapcia/txbridge/internal/pkg/transport/jsonwsp"
	"github.com/gabapcia/txbridge/internal/querybackend"
)

// Method names understood by the client.
const (
	methodSubmitTx   = "SubmitTx"
	methodEvaluateTx = "EvaluateTx"
	methodQuery      = "Query"
)

// outcome is what a decoder concluded about a message.
type outcome int

const (
	// notThisType means the message is some other response kind. Expected and silent.
	notThisType outcome = iota

	// matched means the message is this decoder's kind and was decoded.
	// The decoded value may still carry a service-level error.
	matched

	// malformed means the message claims to be this decoder's kind but its
	// payload does not have the expected shape.
	malformed
)

// decoded is the result of running a decoder over a message.
type decoded struct {
	outcome outcome
	value   any
	err     error
}

func matchedValue(v any) decoded { return decoded{outcome: matched, value: v} }

func matchedErr(err error) decoded { return decoded{outcome: matched, err: err} }

func malformedErr(format string, args ...any) decoded {
	return decoded{outcome: malformed, err: fmt.Errorf(format, args...)}
}

// decoder inspects a response envelope and reports its outcome.
type decoder struct {
	name   string
	decode func(r jsonwsp.Response) decoded
}

// decoders is the fixed order responses are tried in. The first matched or
// malformed outcome wins.
var decoders = []decoder{
	{name: "fault", decode: decodeFault},
	{name: methodSubmitTx, decode: decodeSubmitTx},
	{name: methodEvaluateTx, decode: decodeEvaluateTx},
	{name: methodQuery, decode: decodeQuery},
}

// runDecoders applies ds in order, returning the winning decoder's name and
// outcome. When every decoder reports notThisType the name is empty.
func runDecoders(ds []decoder, r jsonwsp.Response) (string, decoded) {
	for _, d := range ds {
		if out := d.decode(r); out.outcome != notThisType {
			return d.name, out
		}
	}
	return "", decoded{outcome: notThisType}
}

func decodeFault(r jsonwsp.Response) decoded {
	if !r.IsFault() {
		return decoded{outcome: notThisType}
	}
	return matchedErr(r.Err())
}

func decodeSubmitTx(r jsonwsp.Response) decoded {
	if r.MethodName != methodSubmitTx {
		return decoded{outcome: notThisType}
	}

	key, payload, err := jsonwsp.SplitTagged(r.Result)
	if err != nil {
		return malformedErr("submit result: %w", err)
	}

	switch key {
	case "SubmitSuccess":
		var success struct {
			TxID ledger.Hash32 `json:"txId"`
		}
		if err := json.Unmarshal(payload, &success); err != nil {
			return malformedErr("submit success: %w", err)
		}
		return matchedValue(success.TxID)
	case "SubmitFail":
		return matchedErr(fmt.Errorf("%w: %s", querybackend.ErrTxRejected, compact(payload)))
	default:
		return malformedErr("unknown submit result %q", key)
	}
}

func decodeEvaluateTx(r jsonwsp.Response) decoded {
	if r.MethodName != methodEvaluateTx {
		return decoded{outcome: notThisType}
	}

	key, payload, err := jsonwsp.SplitTagged(r.Result)
	if err != nil {
		return malformedErr("evaluate result: %w", err)
	}

	switch key {
	case "EvaluationResult":
		var raw map[string]ledger.ExUnits
		if err := json.Unmarshal(payload, &raw); err != nil {
			return malformedErr("evaluation result: %w", err)
		}
		result, err := querybackend.NewEvaluationResult(raw)
		if err != nil {
			return malformedErr("evaluation result: %w", err)
		}
		return matchedValue(result)
	case "EvaluationFailure":
		return matchedErr(fmt.Errorf("%w: %s", querybackend.ErrEvaluationFailed, compact(payload)))
	default:
		return malformedErr("unknown evaluate result %q", key)
	}
}

// wireValue is the value shape of a query result output.
type wireValue struct {
	Coins  uint64            `json:"coins"`
	Assets map[string]uint64 `json:"assets"`
}

// wireOutput is an output as returned by a utxo query.
type wireOutput struct {
	Address   string          `json:"address"`
	Value     wireValue       `json:"value"`
	DatumHash *string         `json:"datumHash"`
	Datum     *string         `json:"datum"`
	Script    json.RawMessage `json:"script"`
}

func decodeQuery(r jsonwsp.Response) decoded {
	if r.MethodName != methodQuery {
		return decoded{outcome: notThisType}
	}

	trimmed := bytes.TrimSpace(r.Result)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		// Failed queries come back as a tagged object or a bare string.
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '"') {
			return matchedErr(fmt.Errorf("%w: %s", querybackend.ErrQueryFailed, compact(trimmed)))
		}
		return malformedErr("query result is not a utxo list")
	}

	var pairs []json.RawMessage
	if err := json.Unmarshal(trimmed, &pairs); err != nil {
		return malformedErr("query result: %w", err)
	}

	utxos := make(querybackend.UtxoSet, len(pairs))
	for i, pair := range pairs {
		var parts []json.RawMessage
		if err := json.Unmarshal(pair, &parts); err != nil || len(parts) != 2 {
			return malformedErr("utxo entry %d is not an [input, output] pair", i)
		}

		var input struct {
			TxID  ledger.Hash32 `json:"txId"`
			Index uint32        `json:"index"`
		}
		if err := json.Unmarshal(parts[0], &input); err != nil {
			return malformedErr("utxo entry %d input: %w", i, err)
		}

		var output wireOutput
		if err := json.Unmarshal(parts[1], &output); err != nil {
			return malformedErr("utxo entry %d output: %w", i, err)
		}

		utxos[ledger.TransactionInput{TxID: input.TxID, Index: input.Index}] = output.toTxOutput()
	}

	return matchedValue(utxos)
}

func (o wireOutput) toTxOutput() querybackend.TxOutput {
	out := querybackend.TxOutput{
		Address: o.Address,
		Value: querybackend.Value{
			Coins:  o.Value.Coins,
			Assets: o.Value.Assets,
		},
	}
	if o.DatumHash != nil {
		out.DatumHash = *o.DatumHash
	}
	if o.Datum != nil {
		out.Datum = *o.Datum
	}
	if len(o.Script) > 0 && !bytes.Equal(o.Script, []byte("null")) {
		out.ScriptRef = string(compact(o.Script))
	}
	return out
}

// compact strips insignificant whitespace from a JSON payload for error messages.
func compact(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
