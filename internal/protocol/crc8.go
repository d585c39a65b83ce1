// Package protocol implements the printer's binary command protocol: CRC-8
// framing, scanline packing and whole-job encoding. The format comes from
// reverse-engineered notes on the GB01/GB02 family of thermal printers, not
// from a published datasheet.
package protocol

// crc8Poly is the generator polynomial for the frame trailer (CRC-8/ATM).
const crc8Poly = 0x07

var crcTable [256]byte

func init() {
	for i := range crcTable {
		c := byte(i)
		for bit := 0; bit < 8; bit++ {
			if c&0x80 != 0 {
				c = c<<1 ^ crc8Poly
			} else {
				c <<= 1
			}
		}
		crcTable[i] = c
	}
}

// Checksum computes the CRC-8 of p with initial value 0.
func Checksum(p []byte) byte {
	var c byte
	for _, b := range p {
		c = crcTable[c^b]
	}
	return c
}
