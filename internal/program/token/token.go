// Package token builds SPL Token and Associated Token Account program
// instructions from matched internal operations.
package token

import (
	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

const (
	tagInitializeMint    uint8 = 0
	tagInitializeAccount uint8 = 1
	tagTransfer          uint8 = 3
	tagApprove           uint8 = 4
	tagRevoke            uint8 = 5
	tagMintTo            uint8 = 7
	tagBurn              uint8 = 8
	tagCloseAccount      uint8 = 9
	tagFreezeAccount     uint8 = 10
	tagThawAccount       uint8 = 11
	tagTransferChecked   uint8 = 12
)

const mintAccountSize = 82
const tokenAccountSize = 165
const defaultDecimals uint8 = 2

// MintAccountSize and TokenAccountSize are the on-chain byte sizes the
// metadata step rent-exemption lookup needs for Token__CreateToken and
// Token__CreateAccount respectively.
const (
	MintAccountSize  = mintAccountSize
	TokenAccountSize = tokenAccountSize
)

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

func systemCreateAccountData(lamports, space uint64, owner solana.PublicKey) []byte {
	return codec.NewInstructionDataBuilder(0).U64(lamports).U64(space).Pubkey(owner).Bytes()
}

// ToInstructions dispatches a matched Token__* internal operation.
// "source" names the account field that carries the operation's main
// subject (the account being debited, frozen, or closed); SPL Token
// instructions use it consistently for that role.
func ToInstructions(typ string, meta map[string]interface{}) ([]*program.Instruction, error) {
	source, err := pub(meta, "source")
	if err != nil {
		return nil, err
	}
	freezeAuthority := optionalPub(meta, "freeze_authority")

	switch typ {
	case operation.TokenInitializeMint:
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		decimals, ok := operation.MetaUint64(meta, "decimals")
		if !ok {
			return nil, apierrors.NewBadOperations("decimals missing")
		}
		data := codec.NewByteTagInstructionDataBuilder(tagInitializeMint).
			U8(uint8(decimals)).Pubkey(source).OptionalPubkey(freezeAuthority).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(mint), program.Readonly(program.SysvarRentPubkey)},
			Data:      data,
		}}, nil

	case operation.TokenInitializeAccount:
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		data := codec.NewByteTagInstructionDataBuilder(tagInitializeAccount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest), program.Readonly(mint), program.Readonly(source),
				program.Readonly(program.SysvarRentPubkey),
			},
			Data: data,
		}}, nil

	case operation.TokenCreateToken:
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		amount, ok := operation.MetaUint64(meta, "amount")
		if !ok {
			return nil, apierrors.NewBadOperations("amount (rent lamports) missing")
		}
		decimals, ok := operation.MetaUint64(meta, "decimals")
		if !ok {
			decimals = uint64(defaultDecimals)
		}
		createIx := program.Instruction{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(source), program.Signer(mint)},
			Data:      systemCreateAccountData(amount, mintAccountSize, program.TokenProgramID),
		}
		initData := codec.NewByteTagInstructionDataBuilder(tagInitializeMint).
			U8(uint8(decimals)).Pubkey(authority).OptionalPubkey(freezeAuthority).Bytes()
		initIx := program.Instruction{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(mint), program.Readonly(program.SysvarRentPubkey)},
			Data:      initData,
		}
		return []*program.Instruction{&createIx, &initIx}, nil

	case operation.TokenCreateAccount:
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		amount, ok := operation.MetaUint64(meta, "amount")
		if !ok {
			return nil, apierrors.NewBadOperations("amount (rent lamports) missing")
		}
		createIx := program.Instruction{
			ProgramID: program.SystemProgramID,
			Accounts:  []*solana.AccountMeta{program.Signer(source), program.Signer(dest)},
			Data:      systemCreateAccountData(amount, tokenAccountSize, program.TokenProgramID),
		}
		initIx := program.Instruction{
			ProgramID: program.TokenProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(dest), program.Readonly(mint), program.Readonly(authority),
				program.Readonly(program.SysvarRentPubkey),
			},
			Data: codec.NewByteTagInstructionDataBuilder(tagInitializeAccount).Bytes(),
		}
		return []*program.Instruction{&createIx, &initIx}, nil

	case operation.TokenApprove:
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		amount, ok := operation.MetaUint64(meta, "amount")
		if !ok {
			return nil, apierrors.NewBadOperations("amount missing")
		}
		data := codec.NewByteTagInstructionDataBuilder(tagApprove).U64(amount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(source), program.Readonly(dest), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil

	case operation.TokenRevoke:
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		data := codec.NewByteTagInstructionDataBuilder(tagRevoke).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(source), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil

	case operation.TokenMintTo:
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		amount, ok := operation.MetaUint64(meta, "amount")
		if !ok {
			return nil, apierrors.NewBadOperations("amount missing")
		}
		data := codec.NewByteTagInstructionDataBuilder(tagMintTo).U64(amount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(mint), program.Writable(source), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil

	case operation.TokenBurn:
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		amount, ok := operation.MetaUint64(meta, "amount")
		if !ok {
			return nil, apierrors.NewBadOperations("amount missing")
		}
		data := codec.NewByteTagInstructionDataBuilder(tagBurn).U64(amount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(source), program.Writable(mint), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil

	case operation.TokenCloseAccount:
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		// The reclaimed-lamports destination is always the authority account,
		// matching close_account in the original gateway.
		data := codec.NewByteTagInstructionDataBuilder(tagCloseAccount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(source), program.Writable(authority), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil

	case operation.TokenFreezeAccount:
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		data := codec.NewByteTagInstructionDataBuilder(tagFreezeAccount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(source), program.Readonly(mint), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil

	case operation.TokenThawAccount:
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		data := codec.NewByteTagInstructionDataBuilder(tagThawAccount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(source), program.Readonly(mint), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil

	case operation.TokenCreateAssocAccount:
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		assoc, _, err := solana.FindAssociatedTokenAddress(source, mint)
		if err != nil {
			return nil, apierrors.New(apierrors.KindProgramError, "derive associated token address", err)
		}
		return []*program.Instruction{{
			ProgramID: program.AssocTokenProgramID,
			Accounts: []*solana.AccountMeta{
				program.Signer(source),
				program.Writable(assoc),
				program.Readonly(source),
				program.Readonly(mint),
				program.Readonly(program.SystemProgramID),
				program.Readonly(program.TokenProgramID),
				program.Readonly(program.SysvarRentPubkey),
			},
		}}, nil

	case operation.TokenTransferChecked:
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		mint, err := pub(meta, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		amount, ok := operation.MetaUint64(meta, "amount")
		if !ok {
			return nil, apierrors.NewBadOperations("amount missing")
		}
		decimals, ok := operation.MetaUint64(meta, "decimals")
		if !ok {
			return nil, apierrors.NewBadOperations("decimals missing")
		}
		data := codec.NewByteTagInstructionDataBuilder(tagTransferChecked).U64(amount).U8(uint8(decimals)).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(source), program.Readonly(mint), program.Writable(dest), program.ReadonlySigner(authority),
			},
			Data: data,
		}}, nil

	case operation.TokenTransfer:
		dest, err := pub(meta, "destination")
		if err != nil {
			return nil, err
		}
		authority, err := pub(meta, "authority")
		if err != nil {
			return nil, err
		}
		amount, ok := operation.MetaUint64(meta, "amount")
		if !ok {
			return nil, apierrors.NewBadOperations("amount missing")
		}
		data := codec.NewByteTagInstructionDataBuilder(tagTransfer).U64(amount).Bytes()
		return []*program.Instruction{{
			ProgramID: program.TokenProgramID,
			Accounts:  []*solana.AccountMeta{program.Writable(source), program.Writable(dest), program.ReadonlySigner(authority)},
			Data:      data,
		}}, nil
	}
	return nil, apierrors.NewBadOperations("unsupported spl-token operation: " + typ)
}
