package vote

import (
	stdbinary "encoding/binary"

	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

// Decode reverses ToInstructions for a single compiled Vote Program
// instruction.
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
	case tagInitializeAccount:
		voter := r.Pubkey()
		withdrawer := r.Pubkey()
		_ = r.Pubkey() // node_pubkey, mirrored to the same authority at build time
		commission := r.U8()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.VoteInitializeAccount, map[string]interface{}{
			"destination": acc(0), "authority": voter.String(), "withdrawer": withdrawer.String(),
			"commission": uint64(commission),
		}, true

	case tagAuthorize:
		newAuthority := r.Pubkey()
		role := r.U32()
		if r.Err() != nil {
			return "", nil, false
		}
		m := map[string]interface{}{
			"destination": acc(0), "authority": acc(2),
		}
		if role == voteAuthorizeVoter {
			m["voter"] = newAuthority.String()
		} else {
			m["withdrawer"] = newAuthority.String()
		}
		return operation.VoteAuthorize, m, true

	case tagWithdraw:
		lamports := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.VoteWithdraw, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "authority": acc(2), "lamports": lamports,
		}, true

	case tagUpdateValidatorIdentity:
		return operation.VoteUpdateValidatorIdentity, map[string]interface{}{
			"vote_pubkey": acc(0), "voter": acc(1), "withdrawer": acc(2),
		}, true

	case tagUpdateCommission:
		commission := r.U8()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.VoteUpdateCommission, map[string]interface{}{
			"vote_pubkey": acc(0), "withdrawer": acc(1), "commission": uint64(commission),
		}, true
	}
	return "", nil, false
}
