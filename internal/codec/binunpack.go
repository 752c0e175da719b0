package codec

import (
	stdbinary "encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/yourusername/solmesh/internal/apierrors"
)

// InstructionDataReader is the inverse of InstructionDataBuilder: it
// walks a compiled instruction's data bytes back into the fixed-width
// fields the program builders packed, used by the decoder to recover
// operation metadata from an on-chain instruction.
type InstructionDataReader struct {
	buf []byte
	pos int
	err error
}

func NewInstructionDataReader(data []byte) *InstructionDataReader {
	return &InstructionDataReader{buf: data}
}

func (r *InstructionDataReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.buf) {
		r.err = apierrors.NewDeserializationFailed("instruction data truncated")
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *InstructionDataReader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *InstructionDataReader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return stdbinary.LittleEndian.Uint32(b)
}

func (r *InstructionDataReader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return stdbinary.LittleEndian.Uint64(b)
}

func (r *InstructionDataReader) Pubkey() solana.PublicKey {
	b := r.take(32)
	var pk solana.PublicKey
	if b != nil {
		copy(pk[:], b)
	}
	return pk
}

// OptionalPubkey reads a Rust COption<Pubkey>.
func (r *InstructionDataReader) OptionalPubkey() *solana.PublicKey {
	tag := r.U32()
	if r.err != nil || tag == 0 {
		return nil
	}
	pk := r.Pubkey()
	return &pk
}

// OptionalI64 reads a Rust Option<i64> (stake lockup arg encoding).
func (r *InstructionDataReader) OptionalI64() *int64 {
	tag := r.U8()
	if r.err != nil || tag == 0 {
		return nil
	}
	v := int64(r.U64())
	return &v
}

// Err returns the first error encountered reading past the buffer end.
func (r *InstructionDataReader) Err() error { return r.err }
