package system

import (
	stdbinary "encoding/binary"

	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

// Decode reverses ToInstructions for a single compiled System Program
// instruction, recovering its OperationType and metadata. It reports ok
// = false for System instructions this package doesn't build (e.g.
// CreateAccountWithSeed), leaving them for the caller to surface as raw,
// un-parsed operations.
func Decode(ix *program.Instruction) (typ string, meta map[string]interface{}, ok bool) {
	if len(ix.Data) < 4 {
		return "", nil, false
	}
	tag := stdbinary.LittleEndian.Uint32(ix.Data[:4])
	r := codec.NewInstructionDataReader(ix.Data[4:])
	acc := func(i int) string {
		if i >= len(ix.Accounts) {
			return ""
		}
		return ix.Accounts[i].PublicKey.String()
	}

	switch tag {
	case tagCreateAccount:
		lamports := r.U64()
		space := r.U64()
		owner := r.Pubkey()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.SystemCreateAccount, map[string]interface{}{
			"source": acc(0), "destination": acc(1),
			"lamports": lamports, "space": space, "owner": owner.String(),
		}, true

	case tagAssign:
		owner := r.Pubkey()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.SystemAssign, map[string]interface{}{
			"source": acc(0), "owner": owner.String(),
		}, true

	case tagTransfer:
		lamports := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.SystemTransfer, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "lamports": lamports,
		}, true

	case tagAdvanceNonceAccount:
		return operation.SystemAdvanceNonceAccount, map[string]interface{}{
			"destination": acc(0), "authority": acc(2),
		}, true

	case tagWithdrawNonceAccount:
		lamports := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.SystemWithdrawNonceAccount, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "authority": acc(4), "lamports": lamports,
		}, true

	case tagInitializeNonceAccount:
		authority := r.Pubkey()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.SystemInitializeNonceAccount, map[string]interface{}{
			"destination": acc(0), "authority": authority.String(),
		}, true

	case tagAuthorizeNonceAccount:
		newAuthority := r.Pubkey()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.SystemAuthorizeNonceAccount, map[string]interface{}{
			"destination": acc(0), "authority": acc(1), "new_authority": newAuthority.String(),
		}, true

	case tagAllocate:
		space := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.SystemAllocate, map[string]interface{}{
			"source": acc(0), "space": space,
		}, true
	}
	return "", nil, false
}
