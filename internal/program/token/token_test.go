package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/solmesh/internal/operation"
)

const addrA = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
const addrB = "BPFLoader2111111111111111111111111111111111"
const addrC = "Stake11111111111111111111111111111111111111"

func TestTransferCheckedRequiresDecimals(t *testing.T) {
	_, err := ToInstructions(operation.TokenTransferChecked, map[string]interface{}{
		"source": addrA, "destination": addrB, "mint": addrC, "authority": addrA, "amount": float64(10),
	})
	require.Error(t, err)
}

func TestTransferCheckedBuildsInstruction(t *testing.T) {
	ixs, err := ToInstructions(operation.TokenTransferChecked, map[string]interface{}{
		"source": addrA, "destination": addrB, "mint": addrC, "authority": addrA,
		"amount": float64(10), "decimals": float64(2),
	})
	require.NoError(t, err)
	require.Len(t, ixs, 1)
	assert.Len(t, ixs[0].Accounts, 4)
}

func TestCreateTokenBuildsTwoInstructions(t *testing.T) {
	ixs, err := ToInstructions(operation.TokenCreateToken, map[string]interface{}{
		"source": addrA, "mint": addrB, "authority": addrC, "amount": float64(1461600),
	})
	require.NoError(t, err)
	require.Len(t, ixs, 2)
}

func TestCreateAssocAccountDerivesAddress(t *testing.T) {
	ixs, err := ToInstructions(operation.TokenCreateAssocAccount, map[string]interface{}{
		"source": addrA, "mint": addrB,
	})
	require.NoError(t, err)
	require.Len(t, ixs, 1)
	assert.Len(t, ixs[0].Accounts, 7)
}

func TestSourceRequired(t *testing.T) {
	_, err := ToInstructions(operation.TokenTransfer, map[string]interface{}{
		"destination": addrB, "authority": addrA, "amount": float64(1),
	})
	require.Error(t, err)
}
