// Package matcher pairs up Rosetta operations into InternalOperations
// ready for program binding. A balance-changing action (a transfer, a
// checked transfer) arrives as two Operations — a negative-amount
// sender and a positive-amount receiver sharing a currency — and the
// matcher folds that pair into one InternalOperation carrying both
// source and destination.
package matcher

import (
	"strconv"
	"strings"

	"github.com/coinbase/rosetta-sdk-go/types"

	"github.com/yourusername/solmesh/internal/operation"
)

// Combine pairs operations by amount/currency/type and produces the
// InternalOperation list the program builders consume. internalMeta,
// when non-nil, is merged positionally into the Nth resulting
// InternalOperation's metadata (used to carry rent-exemption lookups
// resolved during the metadata step, since those values aren't present
// on the client-supplied Operations).
func Combine(ops []*types.Operation, internalMeta []map[string]interface{}) ([]operation.InternalOperation, error) {
	checked := map[int64]bool{}
	var out []operation.InternalOperation

	for i := range ops {
		op := ops[i]
		if checked[op.OperationIdentifier.Index] {
			continue
		}

		meta := cloneMeta(op.Metadata)

		if op.Account != nil {
			if op.Amount != nil {
				cleanAmt := strings.TrimPrefix(op.Amount.Value, "-")
				matchIdx := findPeer(ops, op, cleanAmt, checked)
				if matchIdx >= 0 {
					peer := ops[matchIdx]
					mainAmount, _ := strconv.ParseFloat(op.Amount.Value, 64)
					peerAmount, _ := strconv.ParseFloat(peer.Amount.Value, 64)
					mainAddr := op.Account.Address
					peerAddr := peer.Account.Address

					var source, destination string
					var lamports uint64
					if peerAmount < 0 {
						source, destination = peerAddr, mainAddr
						lamports = uint64(mainAmount)
					} else {
						source, destination = mainAddr, peerAddr
						lamports = uint64(peerAmount)
					}
					meta["source"] = source
					meta["destination"] = destination
					meta["lamports"] = lamports
					meta["amount"] = lamports
					checked[peer.OperationIdentifier.Index] = true
				}
			} else {
				meta["source"] = op.Account.Address
				if _, ok := meta["authority"]; !ok {
					meta["authority"] = op.Account.Address
				}
			}
		}

		if _, ok := meta["authority"]; !ok {
			if src, ok := meta["source"]; ok {
				meta["authority"] = src
			}
		}

		group := operation.GroupFor(op.Type)
		if group == operation.GroupUnknown {
			continue
		}

		if internalMeta != nil && len(internalMeta) > len(out) {
			for k, v := range internalMeta[len(out)] {
				if _, exists := meta[k]; !exists {
					meta[k] = v
				}
			}
		}

		out = append(out, operation.NewInternalOperation(op.Type, meta))
	}
	return out, nil
}

func cloneMeta(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// findPeer locates the unchecked operation that pairs with op: same
// OperationType, same currency symbol+decimals, equal absolute amount,
// different operation index.
func findPeer(ops []*types.Operation, op *types.Operation, cleanAmt string, checked map[int64]bool) int {
	for j, sub := range ops {
		if sub.Amount == nil {
			continue
		}
		if checked[sub.OperationIdentifier.Index] {
			continue
		}
		if sub.OperationIdentifier.Index == op.OperationIdentifier.Index {
			continue
		}
		if sub.Type != op.Type {
			continue
		}
		if strings.TrimPrefix(sub.Amount.Value, "-") != cleanAmt {
			continue
		}
		if sub.Amount.Currency.Symbol != op.Amount.Currency.Symbol {
			continue
		}
		if sub.Amount.Currency.Decimals != op.Amount.Currency.Decimals {
			continue
		}
		return j
	}
	return -1
}
