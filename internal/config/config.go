// Package config loads this server's environment-variable configuration
// from the process environment rather than a config file.
package config

import (
	"os"
	"time"

	"github.com/yourusername/solmesh/internal/apierrors"
)

// Mode selects which endpoint set this process exposes.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Blockchain is the fixed value this server advertises in every
// NetworkIdentifier.blockchain field.
const Blockchain = "Solana"

// RPCTimeout bounds a single JSON-RPC HTTP round trip.
const RPCTimeout = 30 * time.Second

// Config is every value the process needs at startup.
type Config struct {
	// RPCURL is the Solana JSON-RPC endpoint the rpcclient talks to.
	// Unused in ModeOffline.
	RPCURL string
	// NetworkName is the value every request's NetworkIdentifier.network
	// must match, or the request fails BadNetwork.
	NetworkName string
	// Host/Port are the address this server's HTTP listener binds to.
	Host string
	Port string
	// Mode selects online (every endpoint) vs offline (no RPC-backed
	// endpoint: derive, preprocess, payloads, parse, combine, hash, plus
	// network/list and network/options only).
	Mode Mode
}

// Load reads configuration from the process environment, applying the
// defaults a local devnet deployment expects.
func Load() (*Config, error) {
	cfg := &Config{
		RPCURL:      getEnv("RPC_URL", "https://devnet.solana.com"),
		NetworkName: getEnv("NETWORK_NAME", "devnet"),
		Host:        getEnv("HOST", "127.0.0.1"),
		Port:        getEnv("PORT", "8080"),
		Mode:        Mode(getEnv("MODE", string(ModeOnline))),
	}
	if cfg.Mode != ModeOnline && cfg.Mode != ModeOffline {
		return nil, apierrors.New(apierrors.KindBadRequest, "MODE must be online or offline", nil)
	}
	return cfg, nil
}

// Addr is the host:port pair net/http.ListenAndServe expects.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Online reports whether this process should wire up the data API and
// the RPC-backed construction endpoints.
func (c *Config) Online() bool {
	return c.Mode == ModeOnline
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
