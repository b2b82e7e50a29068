// Package endian selects the byte order of binary plate file headers.
//
// Headers are little-endian unless their flag says otherwise, so a file
// written on any host reads back on any other.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines binary.ByteOrder and binary.AppendByteOrder.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine, the plate file default.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() Engine {
	return binary.BigEndian
}

// Select returns Big when big is set and Little otherwise.
func Select(big bool) Engine {
	if big {
		return Big()
	}

	return Little()
}

// Host returns the engine matching the byte order of the running machine.
func Host() Engine {
	var probe uint16 = 0x0100
	if (*[2]byte)(unsafe.Pointer(&probe))[0] == 0x01 {
		return Big()
	}

	return Little()
}

// IsBig reports whether e writes the most significant byte first.
func IsBig(e Engine) bool {
	var b [2]byte
	e.PutUint16(b[:], 0x0102)

	return b[0] == 0x01
}
