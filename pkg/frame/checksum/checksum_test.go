package checksum

import (
	"errors"
	"testing"
)

func TestCRC24(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint64
	}{
		{"empty", []byte{}, 0xB704CE},
		{"check value", []byte("123456789"), 0x21CF02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (CRC24{}).Calculate(tt.data); got != tt.want {
				t.Errorf("Calculate() = %#06x, want %#06x", got, tt.want)
			}
		})
	}
}

func TestCRC24FitsWidth(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	if got := (CRC24{}).Calculate(data); got>>24 != 0 {
		t.Errorf("checksum %#x wider than 24 bits", got)
	}
}

func TestNone(t *testing.T) {
	n := None{}
	if n.Width() != 0 {
		t.Errorf("Width() = %d, want 0", n.Width())
	}
	if got := n.Calculate([]byte("hello world")); got != 0 {
		t.Errorf("Calculate() = %d, want 0", got)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "none", false},
		{"none", "none", false},
		{"CRC24", "crc24", false},
		{"crc-24", "crc24", false},
		{"md5", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAlgorithm) {
					t.Errorf("ByName() error = %v, want ErrUnknownAlgorithm", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName() error = %v", err)
			}
			if got.Name() != tt.want {
				t.Errorf("ByName() = %s, want %s", got.Name(), tt.want)
			}
		})
	}
}
