// Package codec wraps the textual encodings used at the edges of the
// construction pipeline: base58 for addresses/signatures/blockhashes
// (the chain's native textual form), and hex/base64 for the wire
// envelopes the Mesh API itself specifies.
package codec

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/yourusername/solmesh/internal/apierrors"
)

// DecodeAddress parses a base58 address into a PublicKey, surfacing
// ParsePubkeyError on malformed input.
func DecodeAddress(address string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, apierrors.NewParsePubkeyError(err)
	}
	return pk, nil
}

// EncodeAddress renders a PublicKey in its canonical base58 form.
func EncodeAddress(pk solana.PublicKey) string {
	return pk.String()
}

// DecodeBase58 is a thin wrapper for non-address base58 payloads (raw
// transaction bytes, signatures).
func DecodeBase58(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, apierrors.New(apierrors.KindDeserializationFailed, "base58", err)
	}
	return b, nil
}

// EncodeBase58 renders bytes as base58.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// DecodeHash parses a base58 blockhash into solana-go's 32-byte Hash,
// the form a recent-blockhash or nonce value arrives in from RPC.
func DecodeHash(s string) (solana.Hash, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return solana.Hash{}, apierrors.New(apierrors.KindDeserializationFailed, "bad blockhash", err)
	}
	if len(b) != 32 {
		return solana.Hash{}, apierrors.New(apierrors.KindDeserializationFailed, "blockhash must be 32 bytes", nil)
	}
	var h solana.Hash
	copy(h[:], b)
	return h, nil
}

// DecodeHex parses a hex string, the transport encoding the Mesh API
// uses for signing payloads and unsigned-transaction bytes to be
// signed (to_be_signed).
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, apierrors.NewHexDecodingFailed(err)
	}
	return b, nil
}

// EncodeHex renders bytes as lowercase hex.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeBase64 parses standard base64, used where a request carries a
// signature or public key in that form.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apierrors.NewBase64DecodeError(err)
	}
	return b, nil
}

// EncodeBase64 renders bytes as standard base64.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
