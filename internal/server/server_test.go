package server

import (
	"context"
	"errors"

	"github.com/yourusername/solmesh/internal/rpcclient"
)

// fakeRPC is a hand-rolled stand-in for *rpcclient.Client, set up per
// test with just the return values that test needs.
type fakeRPC struct {
	balance          uint64
	tokens           []rpcclient.TokenAccountBalance
	slot             uint64
	blockTime        int64
	firstBlock       uint64
	genesisHash      string
	clusterNodes     []rpcclient.ClusterNode
	block            *rpcclient.ConfirmedBlock
	blockErr         error
	tx               *rpcclient.ConfirmedTxEntry
	txErr            error
	callResult       interface{}
	callErr          error
	lastCallMethod   string
	lastCallParams   interface{}
}

func (f *fakeRPC) GetBalance(ctx context.Context, address string) (uint64, error) {
	return f.balance, nil
}

func (f *fakeRPC) GetTokenAccountsByOwner(ctx context.Context, owner, tokenProgramID string) ([]rpcclient.TokenAccountBalance, error) {
	return f.tokens, nil
}

func (f *fakeRPC) GetSlot(ctx context.Context) (uint64, error) { return f.slot, nil }

func (f *fakeRPC) GetBlockTime(ctx context.Context, slot uint64) (int64, error) {
	return f.blockTime, nil
}

func (f *fakeRPC) GetFirstAvailableBlock(ctx context.Context) (uint64, error) {
	return f.firstBlock, nil
}

func (f *fakeRPC) GetGenesisHash(ctx context.Context) (string, error) {
	return f.genesisHash, nil
}

func (f *fakeRPC) GetClusterNodes(ctx context.Context) ([]rpcclient.ClusterNode, error) {
	return f.clusterNodes, nil
}

func (f *fakeRPC) GetConfirmedBlockWithEncoding(ctx context.Context, slot uint64) (*rpcclient.ConfirmedBlock, error) {
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	return f.block, nil
}

func (f *fakeRPC) GetConfirmedTransaction(ctx context.Context, signature string) (*rpcclient.ConfirmedTxEntry, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	return f.tx, nil
}

func (f *fakeRPC) Call(ctx context.Context, method string, params interface{}) (interface{}, error) {
	f.lastCallMethod = method
	f.lastCallParams = params
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.callResult, nil
}

var errFakeRPC = errors.New("fake rpc failure")
