package wlp

import (
	"encoding/binary"
	"math"
	"unsafe"
)

var hostByteOrder binary.ByteOrder

func init() {
	var endianCheck uint32 = 0x1
	b := (*[4]byte)(unsafe.Pointer(&endianCheck))
	if b[0] == 1 {
		hostByteOrder = binary.LittleEndian
	} else {
		hostByteOrder = binary.BigEndian
	}
}

func fixedToFloat64(fixed int32) float64 {
	i := ((1023 + 44) << 52) + (1 << 51) + uint64(fixed)
	return math.Float64frombits(i) - (3 << 43)
}

func float64ToFixed(float float64) int32 {
	float += 3 << 43
	return int32(math.Float64bits(float))
}

// EncodeHeader writes the message header for object id and opcode into
// the first 8 bytes of buf. size is the full message size including
// the header.
func EncodeHeader(buf []byte, id uint32, opcode uint16, size int) {
	hostByteOrder.PutUint32(buf[:4], id)
	hostByteOrder.PutUint32(buf[4:8], uint32(size)<<16|uint32(opcode))
}

// DecodeHeader extracts the object id, opcode and full message size
// from the first 8 bytes of buf.
func DecodeHeader(buf []byte) (id uint32, opcode uint16, size int) {
	id = hostByteOrder.Uint32(buf[:4])
	arg2 := hostByteOrder.Uint32(buf[4:8])
	opcode = uint16(arg2 & 0xFFFF)
	size = int(arg2 >> 16)
	return
}
