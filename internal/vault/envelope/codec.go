package envelope

import (
	"encoding/binary"
	"fmt"
	"math"
)

const elementSize = 4 // fixed-width float32

// encodeVector serializes a vector to its little-endian IEEE-754
// float32 byte representation.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*elementSize)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*elementSize:], math.Float32bits(v))
	}
	return buf
}

// decodeVector reinterprets data as length little-endian float32 values.
func decodeVector(data []byte, length int) ([]float32, error) {
	if length <= 0 || len(data) != length*elementSize {
		return nil, fmt.Errorf("vector data is %d bytes, want %d", len(data), length*elementSize)
	}
	vector := make([]float32, length)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*elementSize:]))
	}
	return vector, nil
}
