// Package vote builds Vote Program instructions from matched internal
// operations.
package vote

import (
	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

const (
	tagInitializeAccount     uint32 = 0
	tagAuthorize             uint32 = 1
	tagWithdraw              uint32 = 3
	tagUpdateValidatorIdentity uint32 = 4
	tagUpdateCommission      uint32 = 5
)

const voteAuthorizeVoter uint32 = 0
const voteAuthorizeWithdrawer uint32 = 1

const voteAccountSize = 3731

func pub(meta map[string]interface{}, key string, aliases ...string) (solana.PublicKey, error) {
	s, ok := operation.MetaString(meta, key, aliases...)
	if !ok {
		return solana.PublicKey{}, apierrors.NewBadOperations(key + " missing")
	}
	return codec.DecodeAddress(s)
}

// ToInstructions dispatches a matched Vote__* internal operation.
// CreateAccount requires an explicit "commission" field rather than
// silently defaulting to 100: a validator's commission materially
// affects delegator returns and must be a deliberate, visible choice.
func ToInstructions(typ string, meta map[string]interface{}) ([]*program.Instruction, error) {
	switch typ {
	case operation.VoteCreateAccount:
		source, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		commission, ok := operation.MetaUint64(meta, "commission")
		if !ok {
			return nil, apierrors.NewBadOperations("commission missing")
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		createSystemIx := &program.Instruction{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(source), program.Signer(dest)},
			Data:      codec.NewInstructionDataBuilder(0).U64(lamports).U64(voteAccountSize).Pubkey(program.VoteProgramID).Bytes(),
		}
		initData := codec.NewInstructionDataBuilder(tagInitializeAccount).
			Pubkey(authority).Pubkey(authority).Pubkey(authority).U8(uint8(commission)).Bytes()
		initIx := &program.Instruction{
			ProgramID: program.VoteProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest),
				program.Readonly(program.SysvarClockPubkey),
				program.Readonly(program.SysvarRentPubkey),
				program.ReadonlySigner(authority),
			},
			Data: initData,
		}
		return []*program.Instruction{createSystemIx, initIx}, nil

	case operation.VoteAuthorize:
		source, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		var out []*program.Instruction
		if s, ok := operation.MetaString(meta, "voter"); ok {
			newVoter, err := codec.DecodeAddress(s)
			if err != nil {
				return nil, err
			}
			out = append(out, authorizeIx(dest, source, newVoter, voteAuthorizeVoter))
		}
		if s, ok := operation.MetaString(meta, "withdrawer"); ok {
			newWithdrawer, err := codec.DecodeAddress(s)
			if err != nil {
				return nil, err
			}
			out = append(out, authorizeIx(dest, source, newWithdrawer, voteAuthorizeWithdrawer))
		}
		return out, nil

	case operation.VoteWithdraw:
		source, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		data := codec.NewInstructionDataBuilder(tagWithdraw).U64(lamports).Bytes()
		return []*program.Instruction{{
			ProgramID: program.VoteProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(source),
				program.Writable(dest),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.VoteUpdateValidatorIdentity:
		votePubkey, err := pub(meta, "vote_pubkey")
		if err != nil {
			return nil, err
		}
		withdrawer, err := pub(meta, "withdrawer")
		if err != nil {
			return nil, err
		}
		voter, err := pub(meta, "voter")
		if err != nil {
			return nil, err
		}
		data := codec.NewInstructionDataBuilder(tagUpdateValidatorIdentity).Bytes()
		return []*program.Instruction{{
			ProgramID: program.VoteProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(votePubkey),
				program.ReadonlySigner(voter),
				program.ReadonlySigner(withdrawer),
			},
			Data: data,
		}}, nil

	case operation.VoteUpdateCommission:
		votePubkey, err := pub(meta, "vote_pubkey")
		if err != nil {
			return nil, err
		}
		withdrawer, err := pub(meta, "withdrawer")
		if err != nil {
			return nil, err
		}
		commission, ok := operation.MetaUint64(meta, "commission", "comission")
		if !ok {
			return nil, apierrors.NewBadOperations("commission missing")
		}
		data := codec.NewInstructionDataBuilder(tagUpdateCommission).U8(uint8(commission)).Bytes()
		return []*program.Instruction{{
			ProgramID: program.VoteProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(votePubkey),
				program.ReadonlySigner(withdrawer),
			},
			Data: data,
		}}, nil
	}
	return nil, apierrors.NewBadOperations("unsupported vote operation: " + typ)
}

func authorizeIx(votePubkey, currentAuthority, newAuthority solana.PublicKey, role uint32) *program.Instruction {
	data := codec.NewInstructionDataBuilder(tagAuthorize).Pubkey(newAuthority).U32(role).Bytes()
	return &program.Instruction{
		ProgramID: program.VoteProgramID,
		Accounts: []*solana.AccountMeta{
			program.Writable(votePubkey),
			program.Readonly(program.SysvarClockPubkey),
			program.ReadonlySigner(currentAuthority),
		},
		Data: data,
	}
}
