package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/solmesh/internal/operation"
	"github.com/yourusername/solmesh/internal/program"
)

const addrA = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
const addrB = "BPFLoader2111111111111111111111111111111111"

func TestTransferBuildsSingleInstruction(t *testing.T) {
	ixs, err := ToInstructions(operation.SystemTransfer, map[string]interface{}{
		"source": addrA, "destination": addrB, "lamports": float64(1000),
	})
	require.NoError(t, err)
	require.Len(t, ixs, 1)
	assert.Equal(t, program.SystemProgramID, ixs[0].ProgramID)
	assert.Len(t, ixs[0].Accounts, 2)
	assert.True(t, ixs[0].Accounts[0].IsSigner)
	assert.False(t, ixs[0].Accounts[1].IsSigner)
}

func TestCreateAccountRequiresOwner(t *testing.T) {
	_, err := ToInstructions(operation.SystemCreateAccount, map[string]interface{}{
		"source": addrA, "destination": addrB, "lamports": float64(1), "space": float64(0),
	})
	require.Error(t, err)
}

func TestCreateNonceAccountDefaultsLamports(t *testing.T) {
	ixs, err := ToInstructions(operation.SystemCreateNonceAccount, map[string]interface{}{
		"source": addrA, "destination": addrB, "authority": addrA,
	})
	require.NoError(t, err)
	require.Len(t, ixs, 2)
}

func TestUnsupportedOperationIsBadOperations(t *testing.T) {
	_, err := ToInstructions("System__Bogus", map[string]interface{}{})
	require.Error(t, err)
}
