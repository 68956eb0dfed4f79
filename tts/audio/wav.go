package audio

import "encoding/binary"

// EncodeWAV16 builds an in-memory mono 16-bit PCM WAV container around the
// given samples. The container exists only for handoff to the output
// context; it is never persisted.
func EncodeWAV16(samples []int16, sampleRate int) []byte {
	const headerSize = 44
	dataSize := uint32(len(samples) * 2)
	buf := make([]byte, headerSize+int(dataSize))

	// RIFF header
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], 36+dataSize)
	copy(buf[8:12], "WAVE")

	// fmt chunk
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate)*2) // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16)                   // bits per sample

	// data chunk
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], dataSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[headerSize+2*i:], uint16(s))
	}

	return buf
}
