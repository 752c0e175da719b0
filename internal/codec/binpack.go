package codec

import (
	"bytes"
	stdbinary "encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// InstructionDataBuilder packs a builtin program's instruction data:
// a little-endian discriminant tag followed by its fixed-width fields,
// matching the bincode encoding the System/Token/Stake/Vote programs
// expect on-chain.
type InstructionDataBuilder struct {
	buf *bytes.Buffer
	enc *bin.Encoder
}

// NewInstructionDataBuilder starts a new data buffer with a u32
// discriminant tag (the System/Stake/Vote program convention).
func NewInstructionDataBuilder(tag uint32) *InstructionDataBuilder {
	buf := new(bytes.Buffer)
	b := &InstructionDataBuilder{buf: buf, enc: bin.NewBinEncoder(buf)}
	b.enc.WriteUint32(tag, stdbinary.LittleEndian)
	return b
}

// NewByteTagInstructionDataBuilder starts a new data buffer with a
// single u8 discriminant tag (the SPL Token program convention).
func NewByteTagInstructionDataBuilder(tag uint8) *InstructionDataBuilder {
	buf := new(bytes.Buffer)
	b := &InstructionDataBuilder{buf: buf, enc: bin.NewBinEncoder(buf)}
	b.enc.WriteUint8(tag)
	return b
}

func (b *InstructionDataBuilder) U8(v uint8) *InstructionDataBuilder {
	b.enc.WriteUint8(v)
	return b
}

func (b *InstructionDataBuilder) U32(v uint32) *InstructionDataBuilder {
	b.enc.WriteUint32(v, stdbinary.LittleEndian)
	return b
}

func (b *InstructionDataBuilder) U64(v uint64) *InstructionDataBuilder {
	b.enc.WriteUint64(v, stdbinary.LittleEndian)
	return b
}

func (b *InstructionDataBuilder) Pubkey(pk solana.PublicKey) *InstructionDataBuilder {
	b.buf.Write(pk[:])
	return b
}

// OptionalPubkey packs a Rust COption<Pubkey>: a u32 presence tag (0 =
// None, 1 = Some) followed by the 32 key bytes when present.
func (b *InstructionDataBuilder) OptionalPubkey(pk *solana.PublicKey) *InstructionDataBuilder {
	if pk == nil {
		b.enc.WriteUint32(0, stdbinary.LittleEndian)
		return b
	}
	b.enc.WriteUint32(1, stdbinary.LittleEndian)
	b.buf.Write(pk[:])
	return b
}

// OptionalI64 packs a Rust Option<i64> used by stake lockup args: a u8
// presence tag followed by the value when present.
func (b *InstructionDataBuilder) OptionalI64(v *int64) *InstructionDataBuilder {
	if v == nil {
		b.enc.WriteUint8(0)
		return b
	}
	b.enc.WriteUint8(1)
	b.enc.WriteUint64(uint64(*v), stdbinary.LittleEndian)
	return b
}

// Bytes returns the packed instruction data.
func (b *InstructionDataBuilder) Bytes() []byte {
	return b.buf.Bytes()
}
