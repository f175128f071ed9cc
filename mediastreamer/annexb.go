package mediastreamer

// H.264 NAL unit types
const (
	NALTypeSlice  = 1
	NALTypeIDR    = 5
	NALTypeSEI    = 6
	NALTypeSPS    = 7
	NALTypePPS    = 8
	NALTypeAUD    = 9
	NALTypeFiller = 12
	NALTypeSTAPA  = 24 // Single-time aggregation packet A
	NALTypeFUA    = 28 // Fragmentation unit A
)

// NALType returns the type of the NAL unit in its header byte.
func NALType(nalu []byte) uint8 {
	if len(nalu) == 0 {
		return 0
	}
	return nalu[0] & 0x1F
}

// SplitAnnexB parses an Annex B byte stream into NAL units.
// Annex B uses start codes: 0x00000001 or 0x000001.
// The returned slices alias data.
func SplitAnnexB(data []byte) [][]byte {
	var nalUnits [][]byte
	start := -1

	for i := 0; i < len(data); i++ {
		if i+3 < len(data) && data[i] == 0 && data[i+1] == 0 && data[i+2] == 0 && data[i+3] == 1 {
			// 4-byte start code
			if start >= 0 && i > start {
				nalUnits = append(nalUnits, data[start:i])
			}
			start = i + 4
			i += 3
		} else if i+2 < len(data) && data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			// 3-byte start code
			if start >= 0 && i > start {
				nalUnits = append(nalUnits, data[start:i])
			}
			start = i + 3
			i += 2
		}
	}

	if start >= 0 && start < len(data) {
		nalUnits = append(nalUnits, data[start:])
	}

	return nalUnits
}

// JoinAnnexB writes NAL units as an Annex B byte stream with 4-byte start codes.
func JoinAnnexB(nalus [][]byte) []byte {
	size := 0
	for _, n := range nalus {
		size += 4 + len(n)
	}
	out := make([]byte, 0, size)
	for _, n := range nalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, n...)
	}
	return out
}
