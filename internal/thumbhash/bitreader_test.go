package thumbhash

import "testing"

func TestBitReader_ReadBits(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		start int
		reads []int    // widths
		want  []uint32 // values
	}{
		{
			name:  "nibbles low first",
			data:  []byte{0xA5},
			reads: []int{4, 4},
			want:  []uint32{0x5, 0xA},
		},
		{
			name:  "single bits LSB first",
			data:  []byte{0x01, 0x80},
			reads: []int{1, 1, 6, 7, 1},
			want:  []uint32{1, 0, 0, 0, 1},
		},
		{
			name:  "crosses byte boundary",
			data:  []byte{0xF0, 0x0F},
			reads: []int{2, 12, 2},
			// bits 2-7 of 0xF0 (001111) then bits 0-5 of 0x0F (111100)
			want: []uint32{0x0, 0x3FC, 0x0},
		},
		{
			name:  "sixteen bits little endian",
			data:  []byte{0x34, 0x12},
			reads: []int{16},
			want:  []uint32{0x1234},
		},
		{
			name:  "starts at offset",
			data:  []byte{0xFF, 0xFF, 0x3C},
			start: 2,
			reads: []int{4, 4},
			want:  []uint32{0xC, 0x3},
		},
		{
			name:  "past the end reads zeros",
			data:  []byte{0xFF},
			reads: []int{4, 8, 4},
			want:  []uint32{0xF, 0xF, 0x0},
		},
		{
			name:  "empty buffer",
			data:  nil,
			reads: []int{4},
			want:  []uint32{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBitReader(tt.data, tt.start)
			for i, n := range tt.reads {
				if got := r.readBits(n); got != tt.want[i] {
					t.Errorf("read %d (%d bits) = %#x, want %#x", i, n, got, tt.want[i])
				}
			}
		})
	}
}

func TestBitReader_OffsetAndOverrun(t *testing.T) {
	r := newBitReader([]byte{0, 0}, 0)
	r.readBits(3)
	if r.offset() != 3 {
		t.Errorf("offset: got %d, want 3", r.offset())
	}
	r.readBits(13)
	if r.offset() != 16 || r.overrun() {
		t.Errorf("after 16 bits: offset %d overrun %v", r.offset(), r.overrun())
	}
	r.readBits(1)
	if !r.overrun() {
		t.Error("expected overrun after reading past the end")
	}
}
