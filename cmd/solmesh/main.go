// Command solmesh runs the Solana construction-middleware Mesh server:
// a network/construction (and, in online mode, account/block/call)
// API surface backed by a single Solana RPC node.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coinbase/rosetta-sdk-go/asserter"
	rserver "github.com/coinbase/rosetta-sdk-go/server"
	"github.com/coinbase/rosetta-sdk-go/types"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/yourusername/solmesh/internal/apierrors"
	"github.com/yourusername/solmesh/internal/config"
	"github.com/yourusername/solmesh/internal/construction"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/rpcclient"
	"github.com/yourusername/solmesh/internal/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("solmesh exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("network", cfg.NetworkName),
		zap.String("mode", string(cfg.Mode)),
	)

	networkID := &types.NetworkIdentifier{
		Blockchain: config.Blockchain,
		Network:    cfg.NetworkName,
	}

	asrt, err := asserter.NewServer(
		operation.AllTypes(),
		false,
		[]*types.NetworkIdentifier{networkID},
		server.AllowedCallMethods,
		false,
		"",
	)
	if err != nil {
		return err
	}

	constructionService := &construction.Service{
		Blockchain: config.Blockchain,
		Network:    cfg.NetworkName,
	}

	controllers := []rserver.Router{}

	if cfg.Online() {
		rpc, err := rpcclient.New([]string{cfg.RPCURL}, config.RPCTimeout)
		if err != nil {
			return err
		}
		constructionService.RPC = rpc

		dataService := &server.Service{
			Blockchain: config.Blockchain,
			Network:    cfg.NetworkName,
			RPC:        rpc,
		}

		controllers = append(controllers,
			rserver.NewNetworkAPIController(dataService, asrt),
			rserver.NewAccountAPIController(dataService, asrt),
			rserver.NewBlockAPIController(dataService, asrt),
			rserver.NewCallAPIController(dataService, asrt),
		)
	} else {
		// Offline mode still advertises /network/* but with no live RPC
		// collaborator; AccountBalance/Block/Call are not wired at all,
		// /network/status answers with an error, and the two
		// construction steps that do need a node (metadata, submit)
		// fail with a clear error instead of a nil dereference.
		constructionService.RPC = offlineRPC{}
		controllers = append(controllers, rserver.NewNetworkAPIController(&offlineNetworkService{networkID: networkID}, asrt))
	}

	controllers = append(controllers, rserver.NewConstructionAPIController(constructionService, asrt))

	router := rserver.NewRouter(controllers...)
	loggedRouter := rserver.LoggerMiddleware(router)
	corsRouter := rserver.CorsMiddleware(loggedRouter)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      corsRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

// offlineNetworkService answers /network/list and /network/options
// without a live RPC collaborator; /network/status has no RPC-free
// answer, so NetworkStatus returns a BadRequest error.
type offlineNetworkService struct {
	networkID *types.NetworkIdentifier
}

func (o *offlineNetworkService) NetworkList(ctx context.Context, req *types.MetadataRequest) (*types.NetworkListResponse, *types.Error) {
	return &types.NetworkListResponse{NetworkIdentifiers: []*types.NetworkIdentifier{o.networkID}}, nil
}

func (o *offlineNetworkService) NetworkOptions(ctx context.Context, req *types.NetworkRequest) (*types.NetworkOptionsResponse, *types.Error) {
	svc := &server.Service{Blockchain: o.networkID.Blockchain, Network: o.networkID.Network}
	return svc.NetworkOptions(ctx, req)
}

func (o *offlineNetworkService) NetworkStatus(ctx context.Context, req *types.NetworkRequest) (*types.NetworkStatusResponse, *types.Error) {
	return nil, apierrors.New(apierrors.KindBadRequest, "network status requires online mode", nil).ToTypesError()
}

var errOfflineMode = apierrors.New(apierrors.KindBadRequest, "this operation requires online mode", nil)

// offlineRPC backs construction.Service in offline mode: every method
// fails cleanly rather than leaving the RPC collaborator nil, since
// only ConstructionMetadata and ConstructionSubmit ever call it.
type offlineRPC struct{}

func (offlineRPC) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	return solana.Hash{}, errOfflineMode
}

func (offlineRPC) NonceAccountBlockhash(ctx context.Context, nonceAccount solana.PublicKey) (solana.Hash, solana.PublicKey, error) {
	return solana.Hash{}, solana.PublicKey{}, errOfflineMode
}

func (offlineRPC) MinimumBalanceForRentExemption(ctx context.Context, sizeBytes uint64) (uint64, error) {
	return 0, errOfflineMode
}

func (offlineRPC) SendTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	return solana.Signature{}, errOfflineMode
}
