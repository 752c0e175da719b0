package construction

import (
	"context"
	"testing"

	"github.com/coinbase/rosetta-sdk-go/types"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/solmesh/internal/decoder"
	"github.com/yourusername/solmesh/internal/nativetx"
	"github.com/yourusername/solmesh/internal/operation"
)

const (
	payerAddr     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	receiverAddr  = "BPFLoader2111111111111111111111111111111111"
	mintAddr      = "Stake11111111111111111111111111111111111111"
	nonceAddr     = "Vote111111111111111111111111111111111111111"
	authorityAddr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
)

// fakeRPC is a hand-rolled construction.RPC test double, matching the
// fakeRPC style already used in internal/server's tests.
type fakeRPC struct {
	blockhash     solana.Hash
	nonceHash     solana.Hash
	nonceAuthority solana.PublicKey
	rentLamports  uint64
	sendSignature solana.Signature
	sendErr       error
}

func (f *fakeRPC) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	return f.blockhash, nil
}

func (f *fakeRPC) NonceAccountBlockhash(ctx context.Context, nonceAccount solana.PublicKey) (solana.Hash, solana.PublicKey, error) {
	return f.nonceHash, f.nonceAuthority, nil
}

func (f *fakeRPC) MinimumBalanceForRentExemption(ctx context.Context, sizeBytes uint64) (uint64, error) {
	return f.rentLamports, nil
}

func (f *fakeRPC) SendTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	return f.sendSignature, f.sendErr
}

func newTestService(rpc *fakeRPC) *Service {
	return &Service{Blockchain: "Solana", Network: "devnet", RPC: rpc}
}

func networkID() *types.NetworkIdentifier {
	return &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"}
}

func transferOperations() []*types.Operation {
	currency := &types.Currency{Symbol: "SOL", Decimals: 9}
	return []*types.Operation{
		{
			OperationIdentifier: &types.OperationIdentifier{Index: 0},
			Type:                operation.SystemTransfer,
			Status:              strPtr("SUCCESS"),
			Account:             &types.AccountIdentifier{Address: payerAddr},
			Amount:              &types.Amount{Value: "-1000", Currency: currency},
		},
		{
			OperationIdentifier: &types.OperationIdentifier{Index: 1},
			Type:                operation.SystemTransfer,
			Status:              strPtr("SUCCESS"),
			Account:             &types.AccountIdentifier{Address: receiverAddr},
			Amount:              &types.Amount{Value: "1000", Currency: currency},
		},
	}
}

func strPtr(s string) *string { return &s }

// TestNativeTransferFullConstructionFlow drives scenario 1: a plain
// System__Transfer through derive, preprocess, metadata, payloads,
// combine, hash, and submit end to end.
func TestNativeTransferFullConstructionFlow(t *testing.T) {
	rpc := &fakeRPC{blockhash: solana.Hash{1, 2, 3}}
	s := newTestService(rpc)
	ctx := context.Background()

	deriveResp, terr := s.ConstructionDerive(ctx, &types.ConstructionDeriveRequest{
		NetworkIdentifier: networkID(),
		PublicKey:         &types.PublicKey{Bytes: make([]byte, 32), CurveType: types.Edwards25519},
	})
	require.Nil(t, terr)
	require.NotEmpty(t, deriveResp.AccountIdentifier.Address)

	preResp, terr := s.ConstructionPreprocess(ctx, &types.ConstructionPreprocessRequest{
		NetworkIdentifier: networkID(),
		Operations:        transferOperations(),
	})
	require.Nil(t, terr)
	require.Contains(t, preResp.Options, "internal_operations")

	metaResp, terr := s.ConstructionMetadata(ctx, &types.ConstructionMetadataRequest{
		NetworkIdentifier: networkID(),
		Options:           preResp.Options,
	})
	require.Nil(t, terr)
	assert.Equal(t, rpc.blockhash.String(), metaResp.Metadata["blockhash"])

	payloadsResp, terr := s.ConstructionPayloads(ctx, &types.ConstructionPayloadsRequest{
		NetworkIdentifier: networkID(),
		Operations:        transferOperations(),
		Metadata:          metaResp.Metadata,
	})
	require.Nil(t, terr)
	require.NotEmpty(t, payloadsResp.UnsignedTransaction)
	require.Len(t, payloadsResp.Payloads, 1)
	assert.Equal(t, payerAddr, payloadsResp.Payloads[0].AccountIdentifier.Address)

	parseResp, terr := s.ConstructionParse(ctx, &types.ConstructionParseRequest{
		NetworkIdentifier: networkID(),
		Transaction:       payloadsResp.UnsignedTransaction,
		Signed:            false,
	})
	require.Nil(t, terr)
	require.Len(t, parseResp.Operations, 2)

	rawSig := make([]byte, 64)
	for i := range rawSig {
		rawSig[i] = 0xAB
	}
	combineResp, terr := s.ConstructionCombine(ctx, &types.ConstructionCombineRequest{
		NetworkIdentifier:   networkID(),
		UnsignedTransaction: payloadsResp.UnsignedTransaction,
		Signatures: []*types.Signature{{
			SigningPayload: payloadsResp.Payloads[0],
			PublicKey:      &types.PublicKey{Bytes: decodeAddrBytes(t, payerAddr), CurveType: types.Edwards25519},
			SignatureType:  types.Ed25519,
			Bytes:          rawSig,
		}},
	})
	require.Nil(t, terr)
	require.NotEmpty(t, combineResp.SignedTransaction)

	hashResp, terr := s.ConstructionHash(ctx, &types.ConstructionHashRequest{
		NetworkIdentifier: networkID(),
		SignedTransaction: combineResp.SignedTransaction,
	})
	require.Nil(t, terr)
	require.NotEmpty(t, hashResp.TransactionIdentifier.Hash)

	var wantSig solana.Signature
	copy(wantSig[:], rawSig)
	rpc.sendSignature = wantSig
	submitResp, terr := s.ConstructionSubmit(ctx, &types.ConstructionSubmitRequest{
		NetworkIdentifier: networkID(),
		SignedTransaction: combineResp.SignedTransaction,
	})
	require.Nil(t, terr)
	assert.Equal(t, wantSig.String(), submitResp.TransactionIdentifier.Hash)
	assert.Equal(t, hashResp.TransactionIdentifier.Hash, submitResp.TransactionIdentifier.Hash)
}

func decodeAddrBytes(t *testing.T, addr string) []byte {
	t.Helper()
	pk := solana.MustPublicKeyFromBase58(addr)
	return pk[:]
}

// TestTokenCreateTokenRentExemptMetadataWiring drives scenario 5: the
// metadata step's rent-exemption lookup for Token__CreateToken must
// flow, via internal_meta, into the instruction payloads actually
// builds.
func TestTokenCreateTokenRentExemptMetadataWiring(t *testing.T) {
	rpc := &fakeRPC{blockhash: solana.Hash{4, 5, 6}, rentLamports: 1461600}
	s := newTestService(rpc)
	ctx := context.Background()

	ops := []*types.Operation{{
		OperationIdentifier: &types.OperationIdentifier{Index: 0},
		Type:                operation.TokenCreateToken,
		Status:              strPtr("SUCCESS"),
		Account:             &types.AccountIdentifier{Address: payerAddr},
		Metadata: map[string]interface{}{
			"mint":      mintAddr,
			"authority": authorityAddr,
		},
	}}

	preResp, terr := s.ConstructionPreprocess(ctx, &types.ConstructionPreprocessRequest{
		NetworkIdentifier: networkID(),
		Operations:        ops,
	})
	require.Nil(t, terr)

	metaResp, terr := s.ConstructionMetadata(ctx, &types.ConstructionMetadataRequest{
		NetworkIdentifier: networkID(),
		Options:           preResp.Options,
	})
	require.Nil(t, terr)
	internalMeta, ok := metaResp.Metadata["internal_meta"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, internalMeta, 1)
	assert.Equal(t, rpc.rentLamports, internalMeta[0]["amount"])

	payloadsResp, terr := s.ConstructionPayloads(ctx, &types.ConstructionPayloadsRequest{
		NetworkIdentifier: networkID(),
		Operations:        ops,
		Metadata:          metaResp.Metadata,
	})
	require.Nil(t, terr)
	require.NotEmpty(t, payloadsResp.UnsignedTransaction)

	tx, err := nativetx.Decode(payloadsResp.UnsignedTransaction)
	require.NoError(t, err)
	decoded, err := decoder.Decode(tx)
	require.NoError(t, err)

	var sawCreateAccount bool
	for _, op := range decoded {
		if op.Type == operation.SystemCreateAccount {
			sawCreateAccount = true
			lamports, _ := op.Metadata["lamports"].(uint64)
			assert.Equal(t, rpc.rentLamports, lamports)
		}
	}
	assert.True(t, sawCreateAccount, "expected a decoded System__CreateAccount instruction carrying the resolved rent")
}

// TestDurableNonceWiring drives scenario 6: preprocess forwards
// with_nonce, metadata resolves the nonce account's stored blockhash
// and authority, and payloads prepends the advance-nonce instruction
// built from that authority.
func TestDurableNonceWiring(t *testing.T) {
	authorityKey := solana.MustPublicKeyFromBase58(authorityAddr)
	rpc := &fakeRPC{nonceHash: solana.Hash{7, 8, 9}, nonceAuthority: authorityKey}
	s := newTestService(rpc)
	ctx := context.Background()

	preResp, terr := s.ConstructionPreprocess(ctx, &types.ConstructionPreprocessRequest{
		NetworkIdentifier: networkID(),
		Operations:        transferOperations(),
		Metadata: map[string]interface{}{
			"with_nonce": map[string]interface{}{"account": nonceAddr},
		},
	})
	require.Nil(t, terr)
	require.Contains(t, preResp.Options, "with_nonce")

	metaResp, terr := s.ConstructionMetadata(ctx, &types.ConstructionMetadataRequest{
		NetworkIdentifier: networkID(),
		Options:           preResp.Options,
	})
	require.Nil(t, terr)
	assert.Equal(t, rpc.nonceHash.String(), metaResp.Metadata["blockhash"])
	withNonce, ok := metaResp.Metadata["with_nonce"].(*WithNonce)
	require.True(t, ok)
	assert.Equal(t, authorityAddr, withNonce.Authority)

	payloadsResp, terr := s.ConstructionPayloads(ctx, &types.ConstructionPayloadsRequest{
		NetworkIdentifier: networkID(),
		Operations:        transferOperations(),
		Metadata:          metaResp.Metadata,
	})
	require.Nil(t, terr)

	tx, err := nativetx.Decode(payloadsResp.UnsignedTransaction)
	require.NoError(t, err)
	decoded, err := decoder.Decode(tx)
	require.NoError(t, err)

	require.NotEmpty(t, decoded)
	first := decoded[0]
	assert.Equal(t, operation.SystemAdvanceNonceAccount, first.Type)
	assert.Equal(t, nonceAddr, first.Metadata["destination"])
	assert.Equal(t, authorityAddr, first.Metadata["authority"])
}
