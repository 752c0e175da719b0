// Package decoder turns a compiled Solana transaction back into Mesh
// operations, the inverse of matcher+program for chain-fetched
// transactions. Since the Go ecosystem has no equivalent of Solana
// RPC's own jsonParsed instruction decoding, this package decodes
// directly off a transaction's compiled instructions (program id +
// ordered account metas + raw data) via each program package's own
// Decode function, the exact inverse of its ToInstructions builder.
package decoder

import (
	"github.com/coinbase/rosetta-sdk-go/types"
	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/nativetx"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
	"github.com/yourusername/solmesh/internal/program/stake"
	"github.com/yourusername/solmesh/internal/program/system"
	"github.com/yourusername/solmesh/internal/program/token"
	"github.com/yourusername/solmesh/internal/program/vote"
)

var successStatus = "SUCCESS"

// perProgramDecoders is tried in order by ProgramID; the first whose
// ProgramID matches the instruction owns decoding it.
var perProgramDecoders = []struct {
	id     solana.PublicKey
	decode func(*program.Instruction) (string, map[string]interface{}, bool)
}{
	{program.SystemProgramID, system.Decode},
	{program.TokenProgramID, token.Decode},
	{program.StakeProgramID, stake.Decode},
	{program.VoteProgramID, vote.Decode},
	{program.AssocTokenProgramID, token.Decode},
}

// Decode resolves tx's compiled instructions into Mesh operations.
func Decode(tx *solana.Transaction) ([]*types.Operation, error) {
	ixs, err := nativetx.ExpandInstructions(tx)
	if err != nil {
		return nil, err
	}

	var out []*types.Operation
	for _, ix := range ixs {
		typ, meta, ok := decodeOne(ix)
		if !ok {
			out = append(out, unknownOperation(int64(len(out)), ix))
			continue
		}

		if operation.IsBalanceChanging(typ) {
			out = append(out, balanceChangingOperations(int64(len(out)), typ, meta)...)
			continue
		}

		out = append(out, &types.Operation{
			OperationIdentifier: &types.OperationIdentifier{Index: int64(len(out))},
			Type:                typ,
			Status:              &successStatus,
			Metadata:            meta,
		})
	}
	return out, nil
}

func decodeOne(ix *program.Instruction) (string, map[string]interface{}, bool) {
	for _, d := range perProgramDecoders {
		if !ix.ProgramID.Equals(d.id) {
			continue
		}
		if typ, meta, ok := d.decode(ix); ok {
			return typ, meta, true
		}
	}
	return "", nil, false
}

// balanceChangingOperations splits a decoded transfer-shaped operation
// into a negative-amount sender and a non-negative receiver, stripping
// the address/amount fields from the shared metadata since they now
// appear in structured Account/Amount form.
func balanceChangingOperations(startIndex int64, typ string, meta map[string]interface{}) []*types.Operation {
	source, _ := operation.MetaString(meta, "source")
	destination, _ := operation.MetaString(meta, "destination")
	amount := operation.AmountString(meta)
	currency := currencyFor(meta)

	stripped := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		switch k {
		case "source", "destination", "amount", "lamports":
			continue
		}
		stripped[k] = v
	}
	var metaOrNil map[string]interface{}
	if len(stripped) > 0 {
		metaOrNil = stripped
	}

	senderIdx := &types.OperationIdentifier{Index: startIndex}
	sender := &types.Operation{
		OperationIdentifier: senderIdx,
		Type:                typ,
		Status:              &successStatus,
		Account:             &types.AccountIdentifier{Address: source},
		Amount:              &types.Amount{Value: "-" + amount, Currency: currency},
		Metadata:            metaOrNil,
	}
	receiver := &types.Operation{
		OperationIdentifier: &types.OperationIdentifier{Index: startIndex + 1},
		RelatedOperations:   []*types.OperationIdentifier{senderIdx},
		Type:                typ,
		Status:              &successStatus,
		Account:             &types.AccountIdentifier{Address: destination},
		Amount:              &types.Amount{Value: amount, Currency: currency},
		Metadata:            metaOrNil,
	}
	return []*types.Operation{sender, receiver}
}

func currencyFor(meta map[string]interface{}) *types.Currency {
	if mint, ok := operation.MetaString(meta, "mint"); ok {
		decimals, ok := operation.MetaUint64(meta, "decimals")
		if !ok {
			decimals = operation.NativeDecimals
		}
		return &types.Currency{Symbol: mint, Decimals: int32(decimals)}
	}
	return &types.Currency{Symbol: operation.NativeSymbol, Decimals: operation.NativeDecimals}
}

// unknownOperation carries a partially-decoded instruction verbatim,
// matching the original decoder's handling of opaque/unrecognized
// instructions it can't resolve to a known program binding.
func unknownOperation(index int64, ix *program.Instruction) *types.Operation {
	accounts := make([]string, len(ix.Accounts))
	for i, a := range ix.Accounts {
		accounts[i] = a.PublicKey.String()
	}
	return &types.Operation{
		OperationIdentifier: &types.OperationIdentifier{Index: index},
		Type:                operation.Unknown,
		Status:              &successStatus,
		Metadata: map[string]interface{}{
			"program_id": ix.ProgramID.String(),
			"accounts":   accounts,
			"data":       ix.Data,
		},
	}
}
