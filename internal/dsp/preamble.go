package dsp

// search scans the quantized buffer for the preamble bit pattern at every
// sub-sample offset o in [0, SymbolLength), returning every matching
// absolute bit-index. Each bit spans SymbolLength samples, so a clean
// frame usually matches at many or all offsets, at adjacent indices; these
// duplicates are tolerated — the frame slicer deduplicates.
//
// Rather than byte-packing the stride-decimated view and doing a
// substring search, it walks the decimated positions directly and
// compares against the 16-bit preamble pattern.
func (d *Demodulator) search() []int {
	L := d.cfg.SymbolLength
	preamble := d.cfg.preambleBits
	n := len(d.quantized)
	span := (len(preamble) - 1) * L

	var matches []int
	for o := 0; o < L; o++ {
		for p := o; p+span < n; p += L {
			ok := true
			for k, bit := range preamble {
				if d.quantized[p+k*L] != bit {
					ok = false
					break
				}
			}
			if ok {
				matches = append(matches, p)
			}
		}
	}
	return matches
}
