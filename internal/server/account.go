package server

import (
	"context"
	"strconv"

	"github.com/coinbase/rosetta-sdk-go/types"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

// currentBlock resolves the tip the way NetworkStatus does, for the
// AccountBalance response that echoes the current block alongside its
// payload.
func (s *Service) currentBlock(ctx context.Context) (*types.BlockIdentifier, error) {
	slot, err := s.RPC.GetSlot(ctx)
	if err != nil {
		return nil, err
	}
	return &types.BlockIdentifier{Index: int64(slot), Hash: slotHash(slot)}, nil
}

// AccountBalance reports an address's native SOL balance plus every SPL
// token balance it holds, filtered to the requested currencies when the
// caller supplies any. Token currencies are keyed by mint address, not a
// human symbol — the mint is the only identifier the chain itself knows.
func (s *Service) AccountBalance(ctx context.Context, req *types.AccountBalanceRequest) (*types.AccountBalanceResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	if req.BlockIdentifier != nil {
		return nil, apierrors.NewHistoricBalancesUnsupported().ToTypesError()
	}

	address := req.AccountIdentifier.Address

	wantSymbols := map[string]bool{}
	for _, c := range req.Currencies {
		wantSymbols[c.Symbol] = true
	}
	wantAll := len(wantSymbols) == 0

	var balances []*types.Amount

	tokens, err := s.RPC.GetTokenAccountsByOwner(ctx, address, program.TokenProgramID.String())
	if err != nil {
		return nil, errToTypes(err)
	}
	for _, t := range tokens {
		if !wantAll && !wantSymbols[t.Mint] {
			continue
		}
		balances = append(balances, &types.Amount{
			Value: t.Amount,
			Currency: &types.Currency{
				Symbol:   t.Mint,
				Decimals: int32(t.Decimals),
			},
		})
	}

	if wantAll || wantSymbols[operation.NativeSymbol] {
		lamports, err := s.RPC.GetBalance(ctx, address)
		if err != nil {
			return nil, errToTypes(err)
		}
		balances = append(balances, &types.Amount{
			Value: strconv.FormatUint(lamports, 10),
			Currency: &types.Currency{
				Symbol:   operation.NativeSymbol,
				Decimals: operation.NativeDecimals,
			},
		})
	}

	block, err := s.currentBlock(ctx)
	if err != nil {
		return nil, errToTypes(err)
	}

	return &types.AccountBalanceResponse{
		BlockIdentifier: block,
		Balances:        balances,
	}, nil
}
