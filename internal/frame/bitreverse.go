package frame

// bitReverse reverses the bit order of a single byte (swap 4, swap 2,
// swap 1). The Davis link layer sends bits LSB-first; every byte is
// reversed before any downstream interpretation.
func bitReverse(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
