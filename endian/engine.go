// Package endian provides the byte order engines used by the pixel and
// binary-label codecs.
//
// A VICAR file declares its byte order in the label (INTFMT, REALFMT), so the
// engine is always selected from the label and passed explicitly into every
// codec call. Nothing in this module infers byte order from the running host.
//
//	engine := format.IntHigh.Engine() // big-endian
//	v := engine.Uint16(window)
//
// # Thread Safety
//
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == GetBigEndianEngine()
}
