package token

import (
	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

// Decode reverses ToInstructions for a single compiled SPL Token or
// Associated Token Account instruction.
func Decode(ix *program.Instruction) (typ string, meta map[string]interface{}, ok bool) {
	acc := func(i int) string {
		if i >= len(ix.Accounts) {
			return ""
		}
		return ix.Accounts[i].PublicKey.String()
	}

	if ix.ProgramID.Equals(program.AssocTokenProgramID) {
		if len(ix.Accounts) < 4 {
			return "", nil, false
		}
		return operation.TokenCreateAssocAccount, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "mint": acc(3),
		}, true
	}

	if len(ix.Data) < 1 {
		return "", nil, false
	}
	tag := ix.Data[0]
	r := codec.NewInstructionDataReader(ix.Data[1:])

	switch tag {
	case tagInitializeMint:
		decimals := r.U8()
		authority := r.Pubkey()
		freeze := r.OptionalPubkey()
		if r.Err() != nil {
			return "", nil, false
		}
		m := map[string]interface{}{
			"mint": acc(0), "decimals": uint64(decimals), "authority": authority.String(),
		}
		if freeze != nil {
			m["freeze_authority"] = freeze.String()
		}
		return operation.TokenInitializeMint, m, true

	case tagInitializeAccount:
		return operation.TokenInitializeAccount, map[string]interface{}{
			"destination": acc(0), "mint": acc(1), "source": acc(2),
		}, true

	case tagTransfer:
		amount := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.TokenTransfer, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "authority": acc(2), "amount": amount,
		}, true

	case tagApprove:
		amount := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.TokenApprove, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "authority": acc(2), "amount": amount,
		}, true

	case tagRevoke:
		return operation.TokenRevoke, map[string]interface{}{
			"source": acc(0), "authority": acc(1),
		}, true

	case tagMintTo:
		amount := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.TokenMintTo, map[string]interface{}{
			"mint": acc(0), "source": acc(1), "authority": acc(2), "amount": amount,
		}, true

	case tagBurn:
		amount := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.TokenBurn, map[string]interface{}{
			"source": acc(0), "mint": acc(1), "authority": acc(2), "amount": amount,
		}, true

	case tagCloseAccount:
		return operation.TokenCloseAccount, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "authority": acc(2),
		}, true

	case tagFreezeAccount:
		return operation.TokenFreezeAccount, map[string]interface{}{
			"source": acc(0), "mint": acc(1), "authority": acc(2),
		}, true

	case tagThawAccount:
		return operation.TokenThawAccount, map[string]interface{}{
			"source": acc(0), "mint": acc(1), "authority": acc(2),
		}, true

	case tagTransferChecked:
		amount := r.U64()
		decimals := r.U8()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.TokenTransferChecked, map[string]interface{}{
			"source": acc(0), "mint": acc(1), "destination": acc(2), "authority": acc(3),
			"amount": amount, "decimals": uint64(decimals),
		}, true
	}
	return "", nil, false
}
