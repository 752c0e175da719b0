package stake

import (
	stdbinary "encoding/binary"

	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

// Decode reverses ToInstructions for a single compiled Stake Program
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
	case tagInitialize:
		staker := r.Pubkey()
		withdrawer := r.Pubkey()
		ts := r.U64()
		epoch := r.U64()
		custodian := r.Pubkey()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.StakeInitialize, map[string]interface{}{
			"destination": acc(0), "staker": staker.String(), "withdrawer": withdrawer.String(),
			"lockup": map[string]interface{}{
				"unix_timestamp": ts, "epoch": epoch, "custodian": custodian.String(),
			},
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
		if role == stakeAuthorizeStaker {
			m["staker"] = newAuthority.String()
		} else {
			m["withdrawer"] = newAuthority.String()
		}
		return operation.StakeAuthorize, m, true

	case tagDelegate:
		return operation.StakeDelegate, map[string]interface{}{
			"destination": acc(0), "vote_pubkey": acc(1), "authority": acc(5),
		}, true

	case tagSplit:
		lamports := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.StakeSplit, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "authority": acc(2), "lamports": lamports,
		}, true

	case tagWithdraw:
		lamports := r.U64()
		if r.Err() != nil {
			return "", nil, false
		}
		return operation.StakeWithdraw, map[string]interface{}{
			"source": acc(0), "destination": acc(1), "withdrawer": acc(4), "lamports": lamports,
		}, true

	case tagDeactivate:
		return operation.StakeDeactivate, map[string]interface{}{
			"destination": acc(0), "authority": acc(2),
		}, true

	case tagSetLockup:
		ts := r.OptionalI64()
		epoch := r.OptionalI64()
		custodian := r.OptionalPubkey()
		if r.Err() != nil {
			return "", nil, false
		}
		lockup := map[string]interface{}{}
		if ts != nil {
			lockup["unix_timestamp"] = uint64(*ts)
		}
		if epoch != nil {
			lockup["epoch"] = uint64(*epoch)
		}
		if custodian != nil {
			lockup["custodian"] = custodian.String()
		}
		return operation.StakeSetLockup, map[string]interface{}{
			"destination": acc(0), "authority": acc(1), "lockup": lockup,
		}, true

	case tagMerge:
		return operation.StakeMerge, map[string]interface{}{
			"destination": acc(0), "source": acc(1), "authority": acc(4),
		}, true
	}
	return "", nil, false
}
