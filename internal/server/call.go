package server

import (
	"context"

	"github.com/coinbase/rosetta-sdk-go/types"

	"github.com/yourusername/solmesh/internal/apierrors"
)

// AllowedCallMethods is the closed enumeration of RPC method names the
// /call passthrough accepts, matching the method list this server's own
// rpcclient exercises elsewhere (open question (c)). Exported so
// cmd/solmesh can hand the same list to the asserter.
var AllowedCallMethods = []string{
	"getBalance",
	"getTokenAccountsByOwner",
	"getLatestBlockhash",
	"getAccountInfo",
	"getMinimumBalanceForRentExemption",
	"getBlock",
	"getTransaction",
	"sendTransaction",
	"getSlot",
	"getBlockTime",
	"getFirstAvailableBlock",
	"getGenesisHash",
	"getClusterNodes",
}

func isAllowedCallMethod(method string) bool {
	for _, m := range AllowedCallMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Call forwards a client-supplied JSON-RPC method/parameters pair
// straight to the RPC collaborator, rejecting anything outside the
// advertised allow-list before it ever reaches rpcclient.
func (s *Service) Call(ctx context.Context, req *types.CallRequest) (*types.CallResponse, *types.Error) {
	if terr := s.checkNetwork(req.NetworkIdentifier); terr != nil {
		return nil, terr
	}
	if !isAllowedCallMethod(req.Method) {
		return nil, apierrors.NewBadRequest().ToTypesError()
	}

	result, err := s.RPC.Call(ctx, req.Method, req.Parameters)
	if err != nil {
		return nil, errToTypes(err)
	}

	resultMap, ok := result.(map[string]interface{})
	if !ok {
		resultMap = map[string]interface{}{"result": result}
	}

	return &types.CallResponse{
		Result:     resultMap,
		Idempotent: false,
	}, nil
}
