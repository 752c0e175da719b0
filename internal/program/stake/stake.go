// Package stake builds Stake Program instructions from matched
// internal operations.
package stake

import (
	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

const (
	tagInitialize   uint32 = 0
	tagAuthorize    uint32 = 1
	tagDelegate     uint32 = 2
	tagSplit        uint32 = 3
	tagWithdraw     uint32 = 4
	tagDeactivate   uint32 = 5
	tagSetLockup    uint32 = 6
	tagMerge        uint32 = 7
)

const stakeAuthorizeStaker uint32 = 0
const stakeAuthorizeWithdrawer uint32 = 1

const stakeAccountSize = 200

func pub(meta map[string]interface{}, key string, aliases ...string) (solana.PublicKey, error) {
	s, ok := operation.MetaString(meta, key, aliases...)
	if !ok {
		return solana.PublicKey{}, apierrors.NewBadOperations(key + " missing")
	}
	return codec.DecodeAddress(s)
}

func optionalPub(meta map[string]interface{}, key string) *solana.PublicKey {
	s, ok := operation.MetaString(meta, key)
	if !ok {
		return nil
	}
	pk, err := codec.DecodeAddress(s)
	if err != nil {
		return nil
	}
	return &pk
}

func optionalI64(meta map[string]interface{}, key string) *int64 {
	v, ok := operation.MetaUint64(meta, key)
	if !ok {
		return nil
	}
	i := int64(v)
	return &i
}
// ToInstructions dispatches a matched Stake__* internal operation.
func ToInstructions(typ string, meta map[string]interface{}) ([]*program.Instruction, error) {
	source, srcErr := pub(meta, "source")
	dest, destErr := pub(meta, "destination", "stake_pubkey")
	var authority solana.PublicKey
	hasAuthority := false
	if pk := optionalPub(meta, "authority"); pk != nil {
		authority = *pk
		hasAuthority = true
	}

	switch typ {
	case operation.StakeCreateAccount:
		if srcErr != nil {
			return nil, srcErr
		}
		if destErr != nil {
			return nil, destErr
		}
		lockup, ok := meta["lockup"].(map[string]interface{})
		if !ok {
			return nil, apierrors.NewBadOperations("lockup missing")
		}
		staker := source
		if pk := optionalPub(meta, "staker"); pk != nil {
			staker = *pk
		}
		withdrawer := source
		if pk := optionalPub(meta, "withdrawer"); pk != nil {
			withdrawer = *pk
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		createSystemIx := &program.Instruction{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(source), program.Signer(dest)},
			Data:      codec.NewInstructionDataBuilder(0).U64(lamports).U64(stakeAccountSize).Pubkey(program.StakeProgramID).Bytes(),
		}
		initBuf := codec.NewInstructionDataBuilder(tagInitialize).Pubkey(staker).Pubkey(withdrawer)
		ts, _ := operation.MetaUint64(lockup, "unix_timestamp")
		epoch, _ := operation.MetaUint64(lockup, "epoch")
		custodian := program.SystemProgramID
		if s, ok := operation.MetaString(lockup, "custodian"); ok {
			if pk, err := codec.DecodeAddress(s); err == nil {
				custodian = pk
			}
		}
		initBuf.U64(ts).U64(epoch).Pubkey(custodian)
		initIx := &program.Instruction{
			ProgramID: program.StakeProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest),
				program.Readonly(program.SysvarRentPubkey),
			},
			Data: initBuf.Bytes(),
		}
		return []*program.Instruction{createSystemIx, initIx}, nil

	case operation.StakeDelegate:
		if destErr != nil {
			return nil, destErr
		}
		if !hasAuthority {
			authority = source
		}
		votePubkey, err := pub(meta, "vote_pubkey")
		if err != nil {
			return nil, err
		}
		data := codec.NewInstructionDataBuilder(tagDelegate).Bytes()
		return []*program.Instruction{{
			ProgramID: program.StakeProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest),
				program.Readonly(votePubkey),
				program.Readonly(program.SysvarClockPubkey),
				program.Readonly(program.SysvarStakeHistoryPubkey),
				program.Readonly(stakeConfigPubkey),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.StakeSplit:
		if srcErr != nil {
			return nil, srcErr
		}
		if destErr != nil {
			return nil, destErr
		}
		if !hasAuthority {
			return nil, apierrors.NewBadOperations("authority missing")
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		data := codec.NewInstructionDataBuilder(tagSplit).U64(lamports).Bytes()
		return []*program.Instruction{{
			ProgramID: program.StakeProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(source),
				program.Writable(dest),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.StakeMerge:
		if srcErr != nil {
			return nil, srcErr
		}
		if destErr != nil {
			return nil, destErr
		}
		if !hasAuthority {
			return nil, apierrors.NewBadOperations("authority missing")
		}
		data := codec.NewInstructionDataBuilder(tagMerge).Bytes()
		return []*program.Instruction{{
			ProgramID: program.StakeProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest),
				program.Writable(source),
				program.Readonly(program.SysvarClockPubkey),
				program.Readonly(program.SysvarStakeHistoryPubkey),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.StakeAuthorize:
		if srcErr != nil {
			return nil, srcErr
		}
		if destErr != nil {
			return nil, destErr
		}
		var out []*program.Instruction
		if s, ok := operation.MetaString(meta, "staker"); ok {
			newStaker, err := codec.DecodeAddress(s)
			if err != nil {
				return nil, err
			}
			out = append(out, authorizeIx(dest, source, newStaker, stakeAuthorizeStaker))
		}
		if s, ok := operation.MetaString(meta, "withdrawer"); ok {
			newWithdrawer, err := codec.DecodeAddress(s)
			if err != nil {
				return nil, err
			}
			out = append(out, authorizeIx(dest, source, newWithdrawer, stakeAuthorizeWithdrawer))
		}
		return out, nil

	case operation.StakeWithdraw:
		if srcErr != nil {
			return nil, srcErr
		}
		if destErr != nil {
			return nil, destErr
		}
		withdrawer, err := pub(meta, "withdrawer")
		if err != nil {
			return nil, err
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		data := codec.NewInstructionDataBuilder(tagWithdraw).U64(lamports).Bytes()
		return []*program.Instruction{{
			ProgramID: program.StakeProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(source),
				program.Writable(dest),
				program.Readonly(program.SysvarClockPubkey),
				program.Readonly(program.SysvarStakeHistoryPubkey),
				program.ReadonlySigner(withdrawer),
			},
			Data: data,
		}}, nil

	case operation.StakeDeactivate:
		if destErr != nil {
			return nil, destErr
		}
		if !hasAuthority {
			authority = source
		}
		data := codec.NewInstructionDataBuilder(tagDeactivate).Bytes()
		return []*program.Instruction{{
			ProgramID: program.StakeProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest),
				program.Readonly(program.SysvarClockPubkey),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.StakeSetLockup:
		if destErr != nil {
			return nil, destErr
		}
		if !hasAuthority {
			authority = source
		}
		lockup, _ := meta["lockup"].(map[string]interface{})
		buf := codec.NewInstructionDataBuilder(tagSetLockup)
		buf.OptionalI64(optionalI64(lockup, "unix_timestamp"))
		buf.OptionalI64(optionalI64(lockup, "epoch"))
		buf.OptionalPubkey(optionalPub(lockup, "custodian"))
		return []*program.Instruction{{
			ProgramID: program.StakeProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest),
				program.ReadonlySigner(authority),
			},
			Data: buf.Bytes(),
		}}, nil
	}
	return nil, apierrors.NewBadOperations("unsupported stake operation: " + typ)
}

func authorizeIx(stakeAccount, currentAuthority, newAuthority solana.PublicKey, role uint32) *program.Instruction {
	data := codec.NewInstructionDataBuilder(tagAuthorize).Pubkey(newAuthority).U32(role).Bytes()
	return &program.Instruction{
		ProgramID: program.StakeProgramID,
		Accounts: []*solana.AccountMeta{
			program.Writable(stakeAccount),
			program.Readonly(program.SysvarClockPubkey),
			program.ReadonlySigner(currentAuthority),
		},
		Data: data,
	}
}

var stakeConfigPubkey = func() solana.PublicKey {
	pk, err := solana.PublicKeyFromBase58("StakeConfig11111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
	return pk
}()
