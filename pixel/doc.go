// Package pixel addresses, decodes and encodes the pixel region of a VICAR
// file.
//
// The region is a sequence of fixed-size records, optionally preceded by a
// binary header of whole records. Each record starts with a binary prefix
// and then holds N1 samples; N2 records form a block and there are N3
// blocks. The organization maps (line, sample, band) onto (N1, N2, N3):
//
//	BSQ: N1=NS N2=NL N3=NB
//	BIL: N1=NS N2=NB N3=NL
//	BIP: N1=NB N2=NS N3=NL
//
// Geometry computes byte offsets, Codec converts sample windows to and from
// values in the byte order the label declares, and Buffer combines both over
// a byte slice without copying it.
//
// Byte order is never taken from the running host: the caller always passes
// the label's INTFMT and REALFMT into NewCodec.
package pixel
