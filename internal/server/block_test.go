package server

import (
	"context"
	"testing"

	"github.com/coinbase/rosetta-sdk-go/types"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/solmesh/internal/nativetx"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program/system"
	"github.com/yourusername/solmesh/internal/rpcclient"
)

const (
	blockAddrA = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	blockAddrB = "BPFLoader2111111111111111111111111111111111"
)

func encodedTestTransaction(t *testing.T) rpcclient.EncodedTransaction {
	t.Helper()
	ixs, err := system.ToInstructions(operation.SystemTransfer, map[string]interface{}{
		"source": blockAddrA, "destination": blockAddrB, "lamports": float64(1000),
	})
	require.NoError(t, err)
	tx, err := nativetx.Build(nativetx.BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{1}})
	require.NoError(t, err)
	encoded, err := nativetx.EncodeUnsigned(tx)
	require.NoError(t, err)
	return rpcclient.EncodedTransaction{encoded, "base58"}
}

func TestBlockReturnsNilBlockWhenRPCFails(t *testing.T) {
	idx := int64(99)
	s := newTestService(&fakeRPC{blockErr: errFakeRPC})
	resp, terr := s.Block(context.Background(), &types.BlockRequest{
		NetworkIdentifier: &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"},
		BlockIdentifier:   &types.PartialBlockIdentifier{Index: &idx},
	})
	require.Nil(t, terr)
	assert.Nil(t, resp.Block)
}

func TestBlockDecodesTransactionsFromConfirmedBlock(t *testing.T) {
	idx := int64(5)
	blockTime := int64(1700000000)
	rpc := &fakeRPC{
		block: &rpcclient.ConfirmedBlock{
			Blockhash:         "blockhash-5",
			PreviousBlockhash: "blockhash-4",
			ParentSlot:        4,
			BlockTime:         &blockTime,
			Transactions: []rpcclient.ConfirmedTxEntry{
				{Transaction: encodedTestTransaction(t)},
			},
		},
	}
	s := newTestService(rpc)
	resp, terr := s.Block(context.Background(), &types.BlockRequest{
		NetworkIdentifier: &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"},
		BlockIdentifier:   &types.PartialBlockIdentifier{Index: &idx},
	})
	require.Nil(t, terr)
	require.NotNil(t, resp.Block)
	assert.Equal(t, int64(5), resp.Block.BlockIdentifier.Index)
	assert.Equal(t, "blockhash-5", resp.Block.BlockIdentifier.Hash)
	assert.Equal(t, int64(4), resp.Block.ParentBlockIdentifier.Index)
	assert.Equal(t, blockTime*1000, resp.Block.Timestamp)
	require.Len(t, resp.Block.Transactions, 1)
	assert.NotEmpty(t, resp.Block.Transactions[0].Operations)
}

func TestBlockTransactionDecodesSingleTransaction(t *testing.T) {
	rpc := &fakeRPC{
		tx: &rpcclient.ConfirmedTxEntry{Transaction: encodedTestTransaction(t)},
	}
	s := newTestService(rpc)
	resp, terr := s.BlockTransaction(context.Background(), &types.BlockTransactionRequest{
		NetworkIdentifier:     &types.NetworkIdentifier{Blockchain: "Solana", Network: "devnet"},
		TransactionIdentifier: &types.TransactionIdentifier{Hash: "anything"},
	})
	require.Nil(t, terr)
	assert.NotEmpty(t, resp.Transaction.Operations)
}
