// Package program holds the shared instruction type and well-known
// program/sysvar addresses the per-program builders (system, token,
// stake, vote; associated-token instructions are built by token)
// compile against.
package program

import "github.com/gagliardetto/solana-go"

// Instruction is the chain-agnostic-within-Solana instruction shape
// every builder produces: a program id, its account list, and packed
// data. nativetx adapts it to solana-go's solana.Instruction interface
// when compiling a Message, so the wire-format work stays inside that
// one well-tested library rather than a hand-rolled encoder.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []*solana.AccountMeta
	Data      []byte
}

func meta(pk solana.PublicKey, signer, writable bool) *solana.AccountMeta {
	return &solana.AccountMeta{PublicKey: pk, IsSigner: signer, IsWritable: writable}
}

// Signer returns a writable, signing account meta.
func Signer(pk solana.PublicKey) *solana.AccountMeta { return meta(pk, true, true) }

// ReadonlySigner returns a non-writable, signing account meta.
func ReadonlySigner(pk solana.PublicKey) *solana.AccountMeta { return meta(pk, true, false) }

// Writable returns a writable, non-signing account meta.
func Writable(pk solana.PublicKey) *solana.AccountMeta { return meta(pk, false, true) }

// Readonly returns a non-writable, non-signing account meta.
func Readonly(pk solana.PublicKey) *solana.AccountMeta { return meta(pk, false, false) }

func mustKey(s string) solana.PublicKey {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		panic("program: invalid well-known address " + s + ": " + err.Error())
	}
	return pk
}

// Well-known program and sysvar addresses. These are fixed chain
// constants, not configuration.
var (
	SystemProgramID  = mustKey("11111111111111111111111111111111")
	TokenProgramID   = mustKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssocTokenProgramID = mustKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	StakeProgramID   = mustKey("Stake11111111111111111111111111111111111111")
	VoteProgramID    = mustKey("Vote111111111111111111111111111111111111111")

	SysvarRentPubkey             = mustKey("SysvarRent111111111111111111111111111111111")
	SysvarClockPubkey            = mustKey("SysvarC1ock11111111111111111111111111111111")
	SysvarRecentBlockhashesPubkey = mustKey("SysvarRecentB1ockHashes11111111111111111111")
	SysvarStakeHistoryPubkey     = mustKey("SysvarStakeHistory1111111111111111111111111")
)
