package apierrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodesAreStable(t *testing.T) {
	cases := map[Kind]int32{
		KindPlaceHolder:              19,
		KindBadRequest:               20,
		KindUnsupportedCurve:         21,
		KindInvalidSignedTransaction: 22,
		KindBadNetwork:               40,
		KindDeserializationFailed:    50,
		KindBadOperations:            70,
		KindAccountNotFound:          80,
		KindSystemTimeError:          90,
		KindHexDecodingFailed:        100,
		KindBadSignature:             110,
		KindBadSignatureType:         120,
		KindBadTransactionScript:     130,
		KindBadTransactionPayload:    140,
		KindBadCoin:                  150,
		KindBadSignatureCount:        160,
		KindRpcClientError:           180,
		KindParsePubkeyError:         190,
		KindParseSignatureError:      200,
		KindBase64DecodeError:        210,
		KindProgramError:             220,
	}
	for kind, code := range cases {
		e := New(kind, "", nil)
		assert.Equal(t, code, e.Code(), "code for %s", kind)
	}
}

func TestOnlyAccountNotFoundAndSystemTimeAreRetriable(t *testing.T) {
	for kind := range registry {
		e := New(kind, "", nil)
		want := kind == KindAccountNotFound || kind == KindSystemTimeError
		assert.Equal(t, want, e.Retriable(), "retriable for %s", kind)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, New(KindAccountNotFound, "", nil).HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, New(KindBadNetwork, "", nil).HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, New(KindRpcClientError, "", nil).HTTPStatus())
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	e := NewRpcClientError(cause)
	require.ErrorIs(t, e, cause)
}

func TestToTypesErrorCarriesDetail(t *testing.T) {
	e := NewBadOperations("amount missing currency")
	te := e.ToTypesError()
	assert.Equal(t, int32(70), te.Code)
	assert.Equal(t, "bad operations", te.Message)
	assert.False(t, te.Retriable)
	assert.Contains(t, te.Details["error"], "amount missing currency")
}

func TestAllErrorsListIsFixed(t *testing.T) {
	all := AllErrors()
	require.Len(t, all, 15)
	assert.Equal(t, int32(20), all[0].Code)
	assert.Equal(t, int32(170), all[len(all)-1].Code)
}
