package decoder

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/solmesh/internal/nativetx"
	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program/system"
	"github.com/yourusername/solmesh/internal/program/token"
)

const (
	addrA = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	addrB = "BPFLoader2111111111111111111111111111111111"
	addrC = "Stake11111111111111111111111111111111111111"
)

func TestDecodeSystemTransferSplitsIntoOppositeSignedPair(t *testing.T) {
	ixs, err := system.ToInstructions(operation.SystemTransfer, map[string]interface{}{
		"source": addrA, "destination": addrB, "lamports": float64(1500),
	})
	require.NoError(t, err)
	tx, err := nativetx.Build(nativetx.BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{1}})
	require.NoError(t, err)

	ops, err := Decode(tx)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, operation.SystemTransfer, ops[0].Type)
	assert.Equal(t, addrA, ops[0].Account.Address)
	assert.Equal(t, "-1500", ops[0].Amount.Value)
	assert.Equal(t, operation.NativeSymbol, ops[0].Amount.Currency.Symbol)
	assert.Equal(t, int32(operation.NativeDecimals), ops[0].Amount.Currency.Decimals)

	assert.Equal(t, addrB, ops[1].Account.Address)
	assert.Equal(t, "1500", ops[1].Amount.Value)
	require.Len(t, ops[1].RelatedOperations, 1)
	assert.Equal(t, int64(0), ops[1].RelatedOperations[0].Index)
}

func TestDecodeTokenTransferCheckedUsesMintAsCurrencySymbol(t *testing.T) {
	const mint = "So11111111111111111111111111111111111111112"
	ixs, err := token.ToInstructions(operation.TokenTransferChecked, map[string]interface{}{
		"source": addrA, "destination": addrB, "mint": mint, "authority": addrC,
		"amount": float64(42), "decimals": float64(6),
	})
	require.NoError(t, err)
	tx, err := nativetx.Build(nativetx.BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{2}})
	require.NoError(t, err)

	ops, err := Decode(tx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, mint, ops[0].Amount.Currency.Symbol)
	assert.Equal(t, int32(6), ops[0].Amount.Currency.Decimals)
	assert.NotContains(t, ops[0].Metadata, "source")
	assert.NotContains(t, ops[0].Metadata, "amount")
}

func TestDecodeNonBalanceOperationKeepsRawMetadata(t *testing.T) {
	ixs, err := system.ToInstructions(operation.SystemAssign, map[string]interface{}{
		"source": addrA, "owner": addrB,
	})
	require.NoError(t, err)
	tx, err := nativetx.Build(nativetx.BuildOptions{Instructions: ixs, RecentBlockhash: solana.Hash{3}})
	require.NoError(t, err)

	ops, err := Decode(tx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, operation.SystemAssign, ops[0].Type)
	assert.Nil(t, ops[0].Account)
	assert.Nil(t, ops[0].Amount)
	assert.Equal(t, addrB, ops[0].Metadata["owner"])
}
