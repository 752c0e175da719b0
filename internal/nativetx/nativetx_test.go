package nativetx

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program/system"
)

const (
	addrA = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	addrB = "BPFLoader2111111111111111111111111111111111"
)

func TestBuildAssignsFirstSignerAsFeePayer(t *testing.T) {
	ixs, err := system.ToInstructions(operation.SystemTransfer, map[string]interface{}{
		"source": addrA, "destination": addrB, "lamports": float64(1000),
	})
	require.NoError(t, err)

	tx, err := Build(BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{1, 2, 3}})
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, uint8(1), tx.Message.Header.NumRequiredSignatures)
	assert.Equal(t, addrA, tx.Message.AccountKeys[0].String())
	require.Len(t, tx.Signatures, 1)
}

func TestSigningPayloadsReturnsOnlyRequiredSigners(t *testing.T) {
	ixs, err := system.ToInstructions(operation.SystemTransfer, map[string]interface{}{
		"source": addrA, "destination": addrB, "lamports": float64(1000),
	})
	require.NoError(t, err)
	tx, err := Build(BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{9}})
	require.NoError(t, err)

	addrs, payloads, err := SigningPayloads(tx)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	require.Len(t, payloads, 1)
	assert.Equal(t, addrA, addrs[0])
	assert.NotEmpty(t, payloads[0])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ixs, err := system.ToInstructions(operation.SystemTransfer, map[string]interface{}{
		"source": addrA, "destination": addrB, "lamports": float64(1000),
	})
	require.NoError(t, err)
	tx, err := Build(BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{5, 5, 5}})
	require.NoError(t, err)

	encoded, err := EncodeUnsigned(tx)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, tx.Message.Header, decoded.Message.Header)
	assert.Equal(t, len(tx.Message.AccountKeys), len(decoded.Message.AccountKeys))
}

func TestHashReturnsFirstSignature(t *testing.T) {
	ixs, err := system.ToInstructions(operation.SystemTransfer, map[string]interface{}{
		"source": addrA, "destination": addrB, "lamports": float64(1000),
	})
	require.NoError(t, err)
	tx, err := Build(BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{7}})
	require.NoError(t, err)

	var sig solana.Signature
	sig[0] = 0xAB
	tx.Signatures[0] = sig

	h, err := Hash(tx)
	require.NoError(t, err)
	assert.Equal(t, sig.String(), h)
}
