package bitseq

import (
	"reflect"
	"testing"
)

func TestPushUntilFulfilled(t *testing.T) {
	b := New(4)
	for _, bit := range []byte{1, 0, 1, 1, 1, 1} {
		b.Push(bit)
	}
	if !b.Fulfilled() {
		t.Fatalf("expected fulfilled")
	}
	if b.Cursor() != 4 {
		t.Errorf("Cursor() = %d, want 4", b.Cursor())
	}
	if got, want := b.Bits(), []byte{1, 0, 1, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Bits() = %v, want %v", got, want)
	}
}

func TestZeroCapacityIsFulfilled(t *testing.T) {
	b := New(0)
	if !b.Fulfilled() {
		t.Errorf("zero capacity sequence should be fulfilled")
	}
	b.Push(1)
	if b.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", b.Cursor())
	}
}

func TestClear(t *testing.T) {
	b := New(8)
	for i := 0; i < 5; i++ {
		b.Push(1)
	}
	b.Clear()
	if b.Cursor() != 0 || b.Fulfilled() {
		t.Fatalf("cursor %d fulfilled %v after clear", b.Cursor(), b.Fulfilled())
	}
	for i := 0; i < b.Cap(); i++ {
		if b.Bit(i) != 0 {
			t.Errorf("bit %d not zeroed", i)
		}
	}
	b.Clear()
	if b.Cursor() != 0 {
		t.Errorf("second clear moved cursor to %d", b.Cursor())
	}
}

func TestUint(t *testing.T) {
	tests := []struct {
		name  string
		width int
		value uint64
	}{
		{"16 bit", 16, 0x0102},
		{"24 bit", 24, 0xB704CE},
		{"zero", 16, 0},
		{"max 16", 16, 0xFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.width)
			b.SetUint(tt.value)
			if !b.Fulfilled() {
				t.Errorf("SetUint should fulfill the sequence")
			}
			if got := b.Uint(); got != tt.value {
				t.Errorf("Uint() = %#x, want %#x", got, tt.value)
			}
		})
	}
}

func TestUintBigEndian(t *testing.T) {
	b := New(16)
	for _, bit := range Unpack([]byte{0x00, 0x0B}) {
		b.Push(bit)
	}
	if got := b.Uint(); got != 11 {
		t.Errorf("Uint() = %d, want 11", got)
	}
}

func TestPack(t *testing.T) {
	tests := []struct {
		name string
		bits []byte
		want []byte
	}{
		{"empty", []byte{}, []byte{}},
		{"one byte", []byte{1, 0, 1, 0, 1, 0, 1, 0}, []byte{0xAA}},
		{"partial", []byte{1, 1, 1}, []byte{0xE0}},
		{"two bytes", []byte{0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0}, []byte{0x01, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pack(tt.bits); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pack() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnpack(t *testing.T) {
	got := Unpack([]byte{0xAA, 0x01})
	want := []byte{1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unpack() = %v, want %v", got, want)
	}
	if back := Pack(got); !reflect.DeepEqual(back, []byte{0xAA, 0x01}) {
		t.Errorf("Pack(Unpack()) = %v", back)
	}
}
