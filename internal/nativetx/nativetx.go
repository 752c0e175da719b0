// Package nativetx compiles matched program instructions into a Solana
// Message/Transaction and back, the way construction.rs's payloads,
// parse, and combine handlers drive solana_sdk::transaction::Transaction.
// It leans entirely on solana-go's own wire codec (the same
// shortvec/compact-u16 format solana_sdk uses) rather than re-deriving
// it, since that codec is exactly what a signed transaction must match
// byte for byte to be accepted by a validator.
package nativetx

import (
	"encoding/hex"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/program"
)

// ixAdapter satisfies solana.Instruction for a program.Instruction
// without renaming program.Instruction's Data field, which every
// builder package already constructs with a struct literal.
type ixAdapter struct{ ix *program.Instruction }

func (a ixAdapter) ProgramID() solana.PublicKey     { return a.ix.ProgramID }
func (a ixAdapter) Accounts() []*solana.AccountMeta { return a.ix.Accounts }
func (a ixAdapter) Data() ([]byte, error)            { return a.ix.Data, nil }

func adapt(ixs []*program.Instruction) []solana.Instruction {
	out := make([]solana.Instruction, len(ixs))
	for i, ix := range ixs {
		out[i] = ixAdapter{ix}
	}
	return out
}

// feePayer is the first signing account across all instructions, in
// instruction then account order — matching construction_payloads's
// scan for the first is_signer account.
func feePayer(ixs []*program.Instruction) (solana.PublicKey, bool) {
	for _, ix := range ixs {
		for _, acc := range ix.Accounts {
			if acc.IsSigner {
				return acc.PublicKey, true
			}
		}
	}
	return solana.PublicKey{}, false
}

// BuildOptions configures an unsigned transaction.
type BuildOptions struct {
	Instructions    []*program.Instruction
	RecentBlockhash solana.Hash
	// NonceAccount/NonceAuthority, when both set, prepend a durable-nonce
	// advance instruction and require the account's blockhash-equivalent
	// nonce value instead of a fetched recent blockhash.
	NonceAccount   *solana.PublicKey
	NonceAuthority *solana.PublicKey
}

// Build compiles instructions into an unsigned Transaction with a
// zeroed signature slot per required signer.
func Build(opts BuildOptions) (*solana.Transaction, error) {
	ixs := opts.Instructions
	if opts.NonceAccount != nil && opts.NonceAuthority != nil {
		advance := &program.Instruction{
			ProgramID: program.SystemProgramID,
			Accounts: []*solana.AccountMeta{
				program.Writable(*opts.NonceAccount),
				program.Readonly(program.SysvarRecentBlockhashesPubkey),
				program.ReadonlySigner(*opts.NonceAuthority),
			},
			Data: []byte{4, 0, 0, 0},
		}
		ixs = append([]*program.Instruction{advance}, ixs...)
	}

	payer, ok := feePayer(opts.Instructions)
	if !ok {
		return nil, apierrors.NewBadOperations("no signing account found among instructions")
	}

	tx, err := solana.NewTransaction(adapt(ixs), opts.RecentBlockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, apierrors.New(apierrors.KindInvalidSignedTransaction, err.Error(), err)
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	return tx, nil
}

// SigningPayloads returns the hex-encoded message bytes each required
// signer must sign, paired with its address — every signer signs the
// same message bytes, only the signature differs.
func SigningPayloads(tx *solana.Transaction) ([]string, []string, error) {
	msgBytes, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, nil, apierrors.New(apierrors.KindInvalidSignedTransaction, err.Error(), err)
	}
	hexMsg := hex.EncodeToString(msgBytes)

	n := int(tx.Message.Header.NumRequiredSignatures)
	addrs := make([]string, 0, n)
	payloads := make([]string, 0, n)
	for i := 0; i < n && i < len(tx.Message.AccountKeys); i++ {
		addrs = append(addrs, tx.Message.AccountKeys[i].String())
		payloads = append(payloads, hexMsg)
	}
	return addrs, payloads, nil
}

// EncodeUnsigned base58-encodes the full wire transaction (zeroed
// signatures included), the form handed back as unsigned_transaction.
func EncodeUnsigned(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", apierrors.New(apierrors.KindInvalidSignedTransaction, err.Error(), err)
	}
	return base58.Encode(raw), nil
}

// Decode reverses EncodeUnsigned/signed encoding: base58 decode then
// parse the wire transaction, used by parse/combine/hash/submit, all of
// which accept either a signed or unsigned transaction string.
func Decode(s string) (*solana.Transaction, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, apierrors.New(apierrors.KindInvalidSignedTransaction, "not valid base58", err)
	}
	var tx solana.Transaction
	if err := tx.UnmarshalWithDecoder(bin.NewBinDecoder(raw)); err != nil {
		return nil, apierrors.New(apierrors.KindInvalidSignedTransaction, err.Error(), err)
	}
	return &tx, nil
}

// accountFlags mirrors the Solana wire convention for deriving
// is-signer/is-writable from an account's position relative to the
// message header's four counts, rather than its signature or role.
func accountFlags(h solana.MessageHeader, numAccounts int, index int) (isSigner, isWritable bool) {
	numSigned := int(h.NumRequiredSignatures)
	if index < numSigned {
		return true, index < numSigned-int(h.NumReadonlySignedAccounts)
	}
	numUnsigned := numAccounts - numSigned
	unsignedIndex := index - numSigned
	return false, unsignedIndex < numUnsigned-int(h.NumReadonlyUnsignedAccounts)
}

// ExpandInstructions resolves a compiled transaction's instructions back
// into program.Instruction form (ordered AccountMetas with concrete
// pubkeys and is-signer/is-writable flags), the input the per-program
// Decode functions walk. This is the inverse of adapt/Build: instead of
// a builder handing solana-go ordered metas, the wire message's
// account-key table and per-instruction index lists are resolved back
// into metas.
func ExpandInstructions(tx *solana.Transaction) ([]*program.Instruction, error) {
	msg := tx.Message
	keys := msg.AccountKeys
	out := make([]*program.Instruction, 0, len(msg.Instructions))
	for _, ci := range msg.Instructions {
		if int(ci.ProgramIDIndex) >= len(keys) {
			return nil, apierrors.New(apierrors.KindDeserializationFailed, "program id index out of range", nil)
		}
		metas := make([]*solana.AccountMeta, 0, len(ci.Accounts))
		for _, idx := range ci.Accounts {
			if int(idx) >= len(keys) {
				return nil, apierrors.New(apierrors.KindDeserializationFailed, "account index out of range", nil)
			}
			isSigner, isWritable := accountFlags(msg.Header, len(keys), int(idx))
			metas = append(metas, &solana.AccountMeta{
				PublicKey:  keys[idx],
				IsSigner:   isSigner,
				IsWritable: isWritable,
			})
		}
		out = append(out, &program.Instruction{
			ProgramID: keys[ci.ProgramIDIndex],
			Accounts:  metas,
			Data:      []byte(ci.Data),
		})
	}
	return out, nil
}

// SigningPositions maps each supplied signer pubkey to its index in the
// message's signer-prefixed account-key table, matching
// get_signing_keypair_positions so Combine can patch the right
// signature slot for each returned signature.
func SigningPositions(tx *solana.Transaction, pubkeys []solana.PublicKey) ([]int, error) {
	n := int(tx.Message.Header.NumRequiredSignatures)
	positions := make([]int, len(pubkeys))
	for i, pk := range pubkeys {
		found := -1
		for j := 0; j < n && j < len(tx.Message.AccountKeys); j++ {
			if tx.Message.AccountKeys[j].Equals(pk) {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, apierrors.New(apierrors.KindBadSignature, "signer "+pk.String()+" is not a required signer of this transaction", nil)
		}
		positions[i] = found
	}
	return positions, nil
}

// Combine patches raw ed25519 signatures into their positions and
// re-encodes the transaction.
func Combine(tx *solana.Transaction, positions []int, rawSignatures [][]byte) (string, error) {
	for i, pos := range positions {
		if pos >= len(tx.Signatures) {
			return "", apierrors.New(apierrors.KindInvalidSignedTransaction, "signature position out of range", nil)
		}
		var sig solana.Signature
		copy(sig[:], rawSignatures[i])
		tx.Signatures[pos] = sig
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", apierrors.New(apierrors.KindInvalidSignedTransaction, err.Error(), err)
	}
	return base58.Encode(raw), nil
}

// Hash returns the transaction identifier Mesh expects for a signed
// transaction: the first signature, base58 encoded (the transaction's
// own hash on Solana).
func Hash(tx *solana.Transaction) (string, error) {
	if len(tx.Signatures) == 0 {
		return "", apierrors.New(apierrors.KindInvalidSignedTransaction, "transaction has no signatures", nil)
	}
	return tx.Signatures[0].String(), nil
}
