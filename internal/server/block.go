package server

import (
	"context"

	"github.com/coinbase/rosetta-sdk-go/types"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/decoder"
	"github.com/yourusername/solmesh/internal/nativetx"
	"github.com/yourusername/solmesh/internal/rpcclient"
)

const defaultBlockTime = 1611091000

func transactionFromEncoded(enc rpcclient.EncodedTransaction) (*types.Transaction, error) {
	tx, err := nativetx.Decode(enc.Base58())
	if err != nil {
		return nil, err
	}
	hash, err := nativetx.Hash(tx)
	if err != nil {
		return nil, err
	}
	ops, err := decoder.Decode(tx)
	if err != nil {
		return nil, err
	}
	return &types.Transaction{
		TransactionIdentifier: &types.TransactionIdentifier{Hash: hash},
		Operations:            ops,
	}, nil
}

// Block returns the requested slot's transactions, or a nil block when
// the RPC node doesn't have it — mirroring the original gateway, which
// treats a failed block lookup as "not found" rather than a hard error.
func (s *Service) Block(ctx context.Context, req *types.BlockRequest) (*types.BlockResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	if req.BlockIdentifier == nil || req.BlockIdentifier.Index == nil {
		return nil, apierrors.NewBadRequest().ToTypesError()
	}
	index := *req.BlockIdentifier.Index

	block, err := s.RPC.GetConfirmedBlockWithEncoding(ctx, uint64(index))
	if err != nil {
		return &types.BlockResponse{Block: nil}, nil
	}

	txs := make([]*types.Transaction, 0, len(block.Transactions))
	for _, entry := range block.Transactions {
		t, err := transactionFromEncoded(entry.Transaction)
		if err != nil {
			return nil, errToTypes(err)
		}
		txs = append(txs, t)
	}

	blockTime := int64(defaultBlockTime)
	if block.BlockTime != nil {
		blockTime = *block.BlockTime
	}

	return &types.BlockResponse{
		Block: &types.Block{
			BlockIdentifier: &types.BlockIdentifier{Index: index, Hash: block.Blockhash},
			ParentBlockIdentifier: &types.BlockIdentifier{
				Index: int64(block.ParentSlot),
				Hash:  block.PreviousBlockhash,
			},
			Timestamp:    blockTime * 1000,
			Transactions: txs,
		},
	}, nil
}

// BlockTransaction looks up one transaction by its signature, regardless
// of which block it landed in.
func (s *Service) BlockTransaction(ctx context.Context, req *types.BlockTransactionRequest) (*types.BlockTransactionResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	entry, err := s.RPC.GetConfirmedTransaction(ctx, req.TransactionIdentifier.Hash)
	if err != nil {
		return nil, errToTypes(err)
	}
	t, err := transactionFromEncoded(entry.Transaction)
	if err != nil {
		return nil, errToTypes(err)
	}
	return &types.BlockTransactionResponse{Transaction: t}, nil
}
