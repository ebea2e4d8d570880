package sqlite

import (
	"encoding/binary"
	"math"
	"reflect"
	"testing"
)

func TestSerializeVector(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{name: "empty", vec: []float32{}},
		{name: "single", vec: []float32{1.5}},
		{name: "typical", vec: []float32{0.25, -1.0, 3.75, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := serializeVector(tt.vec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(blob) != 4*len(tt.vec) {
				t.Fatalf("expected %d bytes, got %d", 4*len(tt.vec), len(blob))
			}

			got := make([]float32, len(tt.vec))
			for i := range got {
				bits := binary.LittleEndian.Uint32(blob[i*4:])
				got[i] = math.Float32frombits(bits)
			}
			if len(tt.vec) > 0 && !reflect.DeepEqual(got, tt.vec) {
				t.Errorf("round trip mismatch: got %v, want %v", got, tt.vec)
			}
		})
	}
}
