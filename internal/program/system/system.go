// Package system builds System Program instructions from matched
// internal operations.
package system

import (
	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

const (
	tagCreateAccount         uint32 = 0
	tagAssign                uint32 = 1
	tagTransfer              uint32 = 2
	tagAdvanceNonceAccount   uint32 = 4
	tagWithdrawNonceAccount  uint32 = 5
	tagInitializeNonceAccount uint32 = 6
	tagAuthorizeNonceAccount uint32 = 7
	tagAllocate              uint32 = 8
)

const defaultNonceLamports uint64 = 1000000000

func pub(meta map[string]interface{}, key string, aliases ...string) (solana.PublicKey, error) {
	s, ok := operation.MetaString(meta, key, aliases...)
	if !ok {
		return solana.PublicKey{}, apierrors.NewBadOperations(key + " missing")
	}
	return codec.DecodeAddress(s)
}

// ToInstructions dispatches a matched System__* internal operation to
// its instruction(s). CreateAccount and Assign require an explicit
// "owner" field rather than hardcoding the SPL Token program: that
// hardcode belongs only to the token-account-creation path
// (the Token__CreateAccount case of program/token's ToInstructions), not
// to general-purpose system use.
func ToInstructions(typ string, meta map[string]interface{}) ([]*program.Instruction, error) {
	switch typ {
	case operation.SystemCreateAccount:
		from, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		to, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		owner, err := pub(meta, "owner")
		if err != nil {
			return nil, err
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		space, ok := operation.MetaUint64(meta, "space")
		if !ok {
			return nil, apierrors.NewBadOperations("space missing")
		}
		data := codec.NewInstructionDataBuilder(tagCreateAccount).U64(lamports).U64(space).Pubkey(owner).Bytes()
		return []*program.Instruction{{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(from), program.Signer(to)},
			Data:      data,
		}}, nil

	case operation.SystemAssign:
		account, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		owner, err := pub(meta, "owner", "new_authority")
		if err != nil {
			return nil, err
		}
		data := codec.NewInstructionDataBuilder(tagAssign).Pubkey(owner).Bytes()
		return []*program.Instruction{{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(account)},
			Data:      data,
		}}, nil

	case operation.SystemTransfer:
		from, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		to, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		data := codec.NewInstructionDataBuilder(tagTransfer).U64(lamports).Bytes()
		return []*program.Instruction{{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(from), program.Writable(to)},
			Data:      data,
		}}, nil

	case operation.SystemCreateNonceAccount:
		from, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		nonce, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			lamports = defaultNonceLamports
		}
		const nonceAccountSize = 80
		createData := codec.NewInstructionDataBuilder(tagCreateAccount).
			U64(lamports).U64(nonceAccountSize).Pubkey(program.SystemProgramID).Bytes()
		initData := codec.NewInstructionDataBuilder(tagInitializeNonceAccount).Pubkey(authority).Bytes()
		return []*program.Instruction{
			{
				ProgramID: program.SystemProgramID,
				Accounts:  []*solana.AccountMeta{program.Signer(from), program.Signer(nonce)},
				Data:      createData,
			},
			{
				ProgramID: program.SystemProgramID,
				Accounts: []*solana.AccountMeta{
					program.Writable(nonce),
					program.Readonly(program.SysvarRecentBlockhashesPubkey),
					program.Readonly(program.SysvarRentPubkey),
				},
				Data: initData,
			},
		}, nil

	case operation.SystemAdvanceNonceAccount:
		nonce, err := pub(meta, "destination", "nonce_account")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		data := codec.NewInstructionDataBuilder(tagAdvanceNonceAccount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.SystemProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(nonce),
				program.Readonly(program.SysvarRecentBlockhashesPubkey),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.SystemWithdrawNonceAccount:
		nonce, err := pub(meta, "source", "nonce_account")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		to, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		lamports, ok := operation.MetaUint64(meta, "lamports")
		if !ok {
			return nil, apierrors.NewBadOperations("lamports missing")
		}
		data := codec.NewInstructionDataBuilder(tagWithdrawNonceAccount).U64(lamports).Bytes()
		return []*program.Instruction{{
			ProgramID: program.SystemProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(nonce),
				program.Writable(to),
				program.Readonly(program.SysvarRecentBlockhashesPubkey),
				program.Readonly(program.SysvarRentPubkey),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.SystemAuthorizeNonceAccount:
		nonce, err := pub(meta, "destination", "nonce_account")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		newAuthority, err := pub(meta, "new_authority")
		if err != nil {
			return nil, err
		}
		data := codec.NewInstructionDataBuilder(tagAuthorizeNonceAccount).Pubkey(newAuthority).Bytes()
		return []*program.Instruction{{
			ProgramID: program.SystemProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(nonce),
				program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.SystemAllocate:
		account, err := pub(meta, "source")
		if err != nil {
			return nil, err
		}
		space, ok := operation.MetaUint64(meta, "space")
		if !ok {
			return nil, apierrors.NewBadOperations("space missing")
		}
		data := codec.NewInstructionDataBuilder(tagAllocate).U64(space).Bytes()
		return []*program.Instruction{{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(account)},
			Data:      data,
		}}, nil
	}
	return nil, apierrors.NewBadOperations("unsupported system operation: " + typ)
}
