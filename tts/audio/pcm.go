package audio

import "encoding/binary"

// PCMToFloat converts raw 16-bit signed little-endian mono PCM bytes to
// normalized samples in [-1, 1] using sample/32768. A trailing odd byte is
// ignored.
func PCMToFloat(pcm []byte) []float64 {
	n := len(pcm) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		samples[i] = float64(s) / 32768.0
	}
	return samples
}

// floatToInt16 quantizes a normalized sample to 16-bit signed with
// symmetric clamping.
func floatToInt16(x float64) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int16(x * 32767.0)
}
