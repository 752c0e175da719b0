// Package construction implements the eight-operation construction
// pipeline state machine: derive, preprocess, metadata, payloads,
// parse, combine, hash, submit. It satisfies
// rosetta-sdk-go/server.ConstructionAPIServicer, mirroring the
// construction.rs handlers of the gateway this was distilled from.
package construction

import (
	"context"
	"encoding/json"

	"github.com/coinbase/rosetta-sdk-go/types"
	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/codec"
	"github.com/yourusername/solmesh/internal/decoder"
	"github.com/yourusername/solmesh/internal/matcher"
	"github.com/yourusername/solmesh/internal/nativetx"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
	"github.com/yourusername/solmesh/internal/program/stake"
	"github.com/yourusername/solmesh/internal/program/system"
	"github.com/yourusername/solmesh/internal/program/token"
	"github.com/yourusername/solmesh/internal/program/vote"
)

// RPC is the chain-state surface the construction pipeline needs: a
// recent blockhash, a durable nonce account's usable blockhash, rent
// exemption minima, and transaction broadcast. Implemented by
// internal/rpcclient against the real Solana JSON-RPC API.
type RPC interface {
	RecentBlockhash(ctx context.Context) (solana.Hash, error)
	NonceAccountBlockhash(ctx context.Context, nonceAccount solana.PublicKey) (hash solana.Hash, authority solana.PublicKey, err error)
	MinimumBalanceForRentExemption(ctx context.Context, sizeBytes uint64) (uint64, error)
	SendTransaction(ctx context.Context, raw []byte) (solana.Signature, error)
}

// Service implements server.ConstructionAPIServicer for one network.
type Service struct {
	Blockchain string
	Network    string
	RPC        RPC
}

// WithNonce carries the durable-nonce account through preprocess,
// metadata, and payloads, picking up its authority along the way.
type WithNonce struct {
	Account   string `json:"account"`
	Authority string `json:"authority,omitempty"`
}

func (s *Service) checkNetwork(ni *types.NetworkIdentifier) *types.Error {
	if ni == nil || ni.Blockchain != s.Blockchain || ni.Network != s.Network {
		return apierrors.NewBadNetwork().ToTypesError()
	}
	return nil
}

func errToTypes(err error) *types.Error {
	if ae, ok := apierrors.As(err); ok {
		return ae.ToTypesError()
	}
	return apierrors.New(apierrors.KindBadRequest, err.Error(), err).ToTypesError()
}

// toInstructions dispatches a matched InternalOperation to its program
// binding by OperationType group, the join point between the matcher
// and the four program packages.
func toInstructions(typ string, meta map[string]interface{}) ([]*program.Instruction, error) {
	switch operation.GroupFor(typ) {
	case operation.GroupSystem:
		return system.ToInstructions(typ, meta)
	case operation.GroupToken:
		return token.ToInstructions(typ, meta)
	case operation.GroupStake:
		return stake.ToInstructions(typ, meta)
	case operation.GroupVote:
		return vote.ToInstructions(typ, meta)
	}
	return nil, apierrors.NewBadOperations("unsupported operation type: " + typ)
}

// decodeInto JSON round-trips v (an arbitrary interface{} coming out of
// an Options/Metadata map, whether it's already typed Go values from an
// in-process call or generic map[string]interface{} from an HTTP
// payload) into dst.
func decodeInto(v interface{}, dst interface{}) error {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// ConstructionDerive converts an Edwards25519 public key to its Solana
// base58 address. Any other curve is rejected outright: this chain has
// no other key format.
func (s *Service) ConstructionDerive(ctx context.Context, req *types.ConstructionDeriveRequest) (*types.ConstructionDeriveResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	if req.PublicKey.CurveType != types.Edwards25519 {
		return nil, apierrors.New(apierrors.KindUnsupportedCurve, "", nil).ToTypesError()
	}
	if len(req.PublicKey.Bytes) != 32 {
		return nil, apierrors.NewHexDecodingFailed(nil).ToTypesError()
	}
	var pk solana.PublicKey
	copy(pk[:], req.PublicKey.Bytes)
	return &types.ConstructionDeriveResponse{
		AccountIdentifier: &types.AccountIdentifier{Address: pk.String()},
	}, nil
}

// ConstructionPreprocess runs the matcher up to InternalOperations and
// forwards with_nonce, producing the Options the metadata step needs.
func (s *Service) ConstructionPreprocess(ctx context.Context, req *types.ConstructionPreprocessRequest) (*types.ConstructionPreprocessResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	internalOps, err := matcher.Combine(req.Operations, nil)
	if err != nil {
		return nil, errToTypes(err)
	}
	options := map[string]interface{}{"internal_operations": internalOps}
	if req.Metadata != nil {
		if wn, ok := req.Metadata["with_nonce"]; ok {
			options["with_nonce"] = wn
		}
	}
	return &types.ConstructionPreprocessResponse{Options: options}, nil
}

// ConstructionMetadata resolves chain state the payloads step needs: a
// recent blockhash (or a durable nonce account's usable blockhash plus
// its authority), and rent-exempt minima for any Token__CreateAccount /
// Token__CreateToken internal operations, stashed per-index in
// internal_meta for the matcher's second pass in payloads.
func (s *Service) ConstructionMetadata(ctx context.Context, req *types.ConstructionMetadataRequest) (*types.ConstructionMetadataResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}

	var internalOps []operation.InternalOperation
	if err := decodeInto(req.Options["internal_operations"], &internalOps); err != nil {
		return nil, apierrors.NewBadRequest().ToTypesError()
	}
	var withNonce *WithNonce
	if err := decodeInto(req.Options["with_nonce"], &withNonce); err != nil {
		return nil, apierrors.NewBadRequest().ToTypesError()
	}

	var blockhash solana.Hash
	if withNonce != nil {
		nonceAccount, err := codec.DecodeAddress(withNonce.Account)
		if err != nil {
			return nil, errToTypes(err)
		}
		hash, authority, err := s.RPC.NonceAccountBlockhash(ctx, nonceAccount)
		if err != nil {
			return nil, errToTypes(err)
		}
		blockhash = hash
		withNonce.Authority = authority.String()
	} else {
		hash, err := s.RPC.RecentBlockhash(ctx)
		if err != nil {
			return nil, errToTypes(err)
		}
		blockhash = hash
	}

	internalMeta := make([]map[string]interface{}, len(internalOps))
	for i, op := range internalOps {
		var size uint64
		switch op.Type {
		case operation.TokenCreateAccount:
			size = token.TokenAccountSize
		case operation.TokenCreateToken:
			size = token.MintAccountSize
		default:
			continue
		}
		rent, err := s.RPC.MinimumBalanceForRentExemption(ctx, size)
		if err != nil {
			return nil, errToTypes(err)
		}
		internalMeta[i] = map[string]interface{}{"amount": rent}
	}

	metadata := map[string]interface{}{
		"blockhash":     blockhash.String(),
		"internal_meta": internalMeta,
	}
	if withNonce != nil {
		metadata["with_nonce"] = withNonce
	}
	return &types.ConstructionMetadataResponse{Metadata: metadata}, nil
}

// ConstructionPayloads runs the matcher's second pass (with the
// metadata step's internal_meta merged in), builds instructions,
// compiles a Message (with or without a nonce advance), and returns the
// unsigned transaction plus one SigningPayload per required signer.
func (s *Service) ConstructionPayloads(ctx context.Context, req *types.ConstructionPayloadsRequest) (*types.ConstructionPayloadsResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	if req.Metadata == nil {
		return nil, apierrors.New(apierrors.KindBadTransactionPayload, "", nil).ToTypesError()
	}

	var internalMeta []map[string]interface{}
	if err := decodeInto(req.Metadata["internal_meta"], &internalMeta); err != nil {
		return nil, apierrors.NewBadRequest().ToTypesError()
	}
	var withNonce *WithNonce
	if err := decodeInto(req.Metadata["with_nonce"], &withNonce); err != nil {
		return nil, apierrors.NewBadRequest().ToTypesError()
	}

	internalOps, err := matcher.Combine(req.Operations, internalMeta)
	if err != nil {
		return nil, errToTypes(err)
	}

	var instructions []*program.Instruction
	for _, op := range internalOps {
		ixs, err := toInstructions(op.Type, op.Metadata)
		if err != nil {
			return nil, errToTypes(err)
		}
		instructions = append(instructions, ixs...)
	}

	blockhashStr, _ := req.Metadata["blockhash"].(string)
	blockhash, err := codec.DecodeHash(blockhashStr)
	if err != nil {
		return nil, errToTypes(err)
	}

	buildOpts := nativetx.BuildOptions{Instructions: instructions, RecentBlockhash: blockhash}
	if withNonce != nil {
		nonceAccount, err := codec.DecodeAddress(withNonce.Account)
		if err != nil {
			return nil, errToTypes(err)
		}
		authority, err := codec.DecodeAddress(withNonce.Authority)
		if err != nil {
			return nil, errToTypes(err)
		}
		buildOpts.NonceAccount = &nonceAccount
		buildOpts.NonceAuthority = &authority
	}

	tx, err := nativetx.Build(buildOpts)
	if err != nil {
		return nil, errToTypes(err)
	}

	unsignedTransaction, err := nativetx.EncodeUnsigned(tx)
	if err != nil {
		return nil, errToTypes(err)
	}
	addrs, hexPayloads, err := nativetx.SigningPayloads(tx)
	if err != nil {
		return nil, errToTypes(err)
	}

	payloads := make([]*types.SigningPayload, len(addrs))
	for i, addr := range addrs {
		payloadBytes, err := codec.DecodeHex(hexPayloads[i])
		if err != nil {
			return nil, errToTypes(err)
		}
		payloads[i] = &types.SigningPayload{
			AccountIdentifier: &types.AccountIdentifier{Address: addr},
			Bytes:             payloadBytes,
			SignatureType:     types.Ed25519,
		}
	}

	return &types.ConstructionPayloadsResponse{
		UnsignedTransaction: unsignedTransaction,
		Payloads:            payloads,
	}, nil
}

// ConstructionParse decodes a (possibly unsigned) transaction and runs
// the decoder to recover its operations, optionally listing signers
// when the caller asserts the transaction is signed.
func (s *Service) ConstructionParse(ctx context.Context, req *types.ConstructionParseRequest) (*types.ConstructionParseResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	tx, err := nativetx.Decode(req.Transaction)
	if err != nil {
		return nil, errToTypes(err)
	}
	ops, err := decoder.Decode(tx)
	if err != nil {
		return nil, errToTypes(err)
	}

	var signers []*types.AccountIdentifier
	if req.Signed {
		n := int(tx.Message.Header.NumRequiredSignatures)
		for i := 0; i < n && i < len(tx.Message.AccountKeys); i++ {
			signers = append(signers, &types.AccountIdentifier{Address: tx.Message.AccountKeys[i].String()})
		}
	}

	return &types.ConstructionParseResponse{
		Operations:               ops,
		AccountIdentifierSigners: signers,
	}, nil
}

// ConstructionCombine patches each signature into its signer's slot in
// the unsigned transaction and re-encodes it.
func (s *Service) ConstructionCombine(ctx context.Context, req *types.ConstructionCombineRequest) (*types.ConstructionCombineResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	tx, err := nativetx.Decode(req.UnsignedTransaction)
	if err != nil {
		return nil, errToTypes(err)
	}

	pubkeys := make([]solana.PublicKey, len(req.Signatures))
	rawSignatures := make([][]byte, len(req.Signatures))
	for i, sig := range req.Signatures {
		if sig.PublicKey == nil || len(sig.PublicKey.Bytes) != 32 {
			return nil, apierrors.New(apierrors.KindBadSignature, "malformed public key", nil).ToTypesError()
		}
		var pk solana.PublicKey
		copy(pk[:], sig.PublicKey.Bytes)
		pubkeys[i] = pk
		rawSignatures[i] = sig.Bytes
	}

	positions, err := nativetx.SigningPositions(tx, pubkeys)
	if err != nil {
		return nil, errToTypes(err)
	}
	signedTransaction, err := nativetx.Combine(tx, positions, rawSignatures)
	if err != nil {
		return nil, errToTypes(err)
	}
	return &types.ConstructionCombineResponse{SignedTransaction: signedTransaction}, nil
}

// ConstructionHash returns a signed transaction's first signature,
// base58 encoded — its identifier on this chain.
func (s *Service) ConstructionHash(ctx context.Context, req *types.ConstructionHashRequest) (*types.TransactionIdentifierResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	tx, err := nativetx.Decode(req.SignedTransaction)
	if err != nil {
		return nil, errToTypes(err)
	}
	hash, err := nativetx.Hash(tx)
	if err != nil {
		return nil, errToTypes(err)
	}
	return &types.TransactionIdentifierResponse{
		TransactionIdentifier: &types.TransactionIdentifier{Hash: hash},
	}, nil
}

// ConstructionSubmit broadcasts a signed transaction and returns the
// RPC's own signature string as the transaction identifier.
func (s *Service) ConstructionSubmit(ctx context.Context, req *types.ConstructionSubmitRequest) (*types.TransactionIdentifierResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	tx, err := nativetx.Decode(req.SignedTransaction)
	if err != nil {
		return nil, errToTypes(err)
	}
	raw, merr := tx.MarshalBinary()
	if merr != nil {
		return nil, apierrors.New(apierrors.KindInvalidSignedTransaction, merr.Error(), merr).ToTypesError()
	}
	sig, err := s.RPC.SendTransaction(ctx, raw)
	if err != nil {
		return nil, errToTypes(err)
	}
	return &types.TransactionIdentifierResponse{
		TransactionIdentifier: &types.TransactionIdentifier{Hash: sig.String()},
	}, nil
}
