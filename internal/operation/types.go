package operation

import "strconv"

// InternalOperation is a matched, program-bound intent ready to be
// turned into one or more chain instructions. Metadata is a loosely
// typed JSON object (mirroring the wire Operation.Metadata) because the
// field set varies per OperationType; program builders pull out the
// fields they need with Meta* accessors below.
type InternalOperation struct {
	Type     string                 `json:"type"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewInternalOperation copies meta into a fresh map so later mutation
// (matcher merges, decoder stripping) never aliases the caller's data.
func NewInternalOperation(typ string, meta map[string]interface{}) InternalOperation {
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return InternalOperation{Type: typ, Metadata: out}
}

// MetaString reads a string field, trying key and then each alias in
// order, matching the serde(alias = "...") fields in the original
// OpMeta (e.g. "authority" aliases "custodian").
func MetaString(meta map[string]interface{}, key string, aliases ...string) (string, bool) {
	if v, ok := meta[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	for _, a := range aliases {
		if v, ok := meta[a]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// MetaUint64 reads a numeric field, accepting either a JSON number or a
// numeric string (both appear across the original's metadata objects).
func MetaUint64(meta map[string]interface{}, key string, aliases ...string) (uint64, bool) {
	keys := append([]string{key}, aliases...)
	for _, k := range keys {
		v, ok := meta[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return uint64(n), true
		case int64:
			return uint64(n), true
		case uint64:
			return n, true
		case string:
			if u, err := strconv.ParseUint(n, 10, 64); err == nil {
				return u, true
			}
		}
	}
	return 0, false
}

// MetaBool reads a boolean field.
func MetaBool(meta map[string]interface{}, key string) (bool, bool) {
	if v, ok := meta[key]; ok {
		if b, ok := v.(bool); ok {
			return b, true
		}
	}
	return false, false
}

// AmountString resolves the decoder's preference order for an amount
// field: lamports, then amount, then a nested token_amount.amount,
// finally "0" if nothing is present.
func AmountString(meta map[string]interface{}) string {
	if v, ok := meta["lamports"]; ok {
		return stringify(v)
	}
	if v, ok := meta["amount"]; ok {
		return stringify(v)
	}
	if ta, ok := meta["token_amount"].(map[string]interface{}); ok {
		if v, ok := ta["amount"]; ok {
			return stringify(v)
		}
	}
	return "0"
}

func stringify(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	default:
		return "0"
	}
}
