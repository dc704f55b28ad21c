package querybackend

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/gabapcia/txbridge/internal/ledger"
)

// TxHash identifies a transaction.
type TxHash = ledger.Hash32

// RedeemerPointer locates a redeemer by tag and index.
type RedeemerPointer struct {
	Tag   ledger.RedeemerTag
	Index uint32
}

// String renders the pointer as the services do, e.g. "spend:0".
func (p RedeemerPointer) String() string {
	return fmt.Sprintf("%s:%d", p.Tag, p.Index)
}

// ParseRedeemerPointer parses "<tag>:<index>".
func ParseRedeemerPointer(s string) (RedeemerPointer, error) {
	tagName, indexStr, ok := strings.Cut(s, ":")
	if !ok {
		return RedeemerPointer{}, fmt.Errorf("invalid redeemer pointer %q", s)
	}

	tag, err := ledger.ParseRedeemerTag(tagName)
	if err != nil {
		return RedeemerPointer{}, err
	}

	index, err := strconv.ParseUint(indexStr, 10, 32)
	if err != nil {
		return RedeemerPointer{}, fmt.Errorf("invalid redeemer index in %q: %w", s, err)
	}

	return RedeemerPointer{Tag: tag, Index: uint32(index)}, nil
}

// EvaluationResult holds the execution budget computed for each redeemer.
type EvaluationResult map[RedeemerPointer]ledger.ExUnits

// NewEvaluationResult converts the pointer-keyed map returned by the services.
func NewEvaluationResult(raw map[string]ledger.ExUnits) (EvaluationResult, error) {
	result := make(EvaluationResult, len(raw))
	for key, units := range raw {
		pointer, err := ParseRedeemerPointer(key)
		if err != nil {
			return nil, err
		}
		result[pointer] = units
	}
	return result, nil
}

// Metadata maps each metadata label to its encoded metadatum.
type Metadata map[uint64][]byte

// Value is an amount of lovelace plus native assets keyed by "<policy id>.<asset name hex>".
type Value struct {
	Coins  uint64            `json:"coins"`
	Assets map[string]uint64 `json:"assets,omitempty"`
}

// TxOutput is an unspent output as reported by a backend.
type TxOutput struct {
	Address   string `json:"address"`
	Value     Value  `json:"value"`
	DatumHash string `json:"datumHash,omitempty"`
	Datum     string `json:"datum,omitempty"`
	ScriptRef string `json:"scriptRef,omitempty"`
}

// UtxoSet maps output references to the outputs they point at.
type UtxoSet map[ledger.TransactionInput]TxOutput

// ServerConfig describes how to reach a backend service.
type ServerConfig struct {
	Host   string `validate:"required"`
	Port   uint16 `validate:"required"`
	Path   string `validate:"omitempty,urlpath"`
	Secure bool
}

func (c ServerConfig) url(plain, secure string) string {
	scheme := plain
	if c.Secure {
		scheme = secure
	}

	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port))),
	}
	if c.Path != "" {
		u.Path = "/" + strings.Trim(c.Path, "/")
	}
	return u.String()
}

// HTTPURL returns the base URL for HTTP services, without a trailing slash.
func (c ServerConfig) HTTPURL() string {
	return c.url("http", "https")
}

// WebsocketURL returns the URL for websocket services.
func (c ServerConfig) WebsocketURL() string {
	return c.url("ws", "wss")
}
