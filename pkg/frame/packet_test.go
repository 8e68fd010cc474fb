package frame

import (
	"bytes"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/Ravenstine/undertone/pkg/frame/bitseq"
	"github.com/Ravenstine/undertone/pkg/frame/checksum"
	"github.com/rs/zerolog"
)

func mustEncoder(t *testing.T, opts Options) *Encoder {
	t.Helper()
	e, err := NewEncoder(opts)
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	return e
}

func mustDecoder(t *testing.T, opts Options) *Decoder {
	t.Helper()
	d, err := NewDecoder(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	return d
}

func TestEncodeLayout(t *testing.T) {
	e := mustEncoder(t, Options{Checksum: checksum.CRC24{}})
	got, err := e.EncodeString("hi")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	sum := checksum.CRC24{}.Calculate([]byte("hi"))
	want := []byte{0xAA, 0xAA, 0xAA, 0x00, 0x02, 'h', 'i', byte(sum >> 16), byte(sum >> 8), byte(sum)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Encode() = %x, want %x", got, want)
	}
}

func TestEncodeNoChecksumLayout(t *testing.T) {
	e := mustEncoder(t, Options{})
	got, err := e.Encode([]byte{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []byte{0xAA, 0xAA, 0xAA, 0x00, 0x00}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Encode() = %x, want %x", got, want)
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := NewEncoder(Options{Preamble: []byte{}}); !errors.Is(err, ErrInvalidPreamble) {
		t.Errorf("empty preamble error = %v, want ErrInvalidPreamble", err)
	}
	if _, err := NewEncoder(Options{Preamble: []byte{0, 0}}); !errors.Is(err, ErrInvalidPreamble) {
		t.Errorf("zero preamble error = %v, want ErrInvalidPreamble", err)
	}
	if _, err := NewEncoder(Options{MaxPayload: 70000}); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("max payload error = %v, want ErrInvalidOptions", err)
	}

	e := mustEncoder(t, Options{})
	if _, err := e.Encode(make([]byte, DefaultMaxPayload+1)); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Encode() error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	lengths := []int{0, 1, 2, 11, 100, 777, DefaultMaxPayload}
	for i := 0; i < 20; i++ {
		lengths = append(lengths, rng.Intn(DefaultMaxPayload+1))
	}

	for _, alg := range []checksum.Algorithm{checksum.None{}, checksum.CRC24{}} {
		opts := Options{Checksum: alg}
		e := mustEncoder(t, opts)
		for _, n := range lengths {
			payload := make([]byte, n)
			rng.Read(payload)

			encoded, err := e.Encode(payload)
			if err != nil {
				t.Fatalf("Encode(%d bytes) error = %v", n, err)
			}
			d := mustDecoder(t, opts)
			got := d.Decode(encoded)
			if len(got) != 1 || !bytes.Equal(got[0], payload) {
				t.Fatalf("%s: round trip of %d bytes returned %d payloads", alg.Name(), n, len(got))
			}
		}
	}
}

func TestDecodeAcrossChunks(t *testing.T) {
	opts := Options{Checksum: checksum.CRC24{}}
	e := mustEncoder(t, opts)
	var stream []byte
	words := []string{"the", "quick", "brown", "fox"}
	for _, w := range words {
		bits, err := e.EncodeBits([]byte(w))
		if err != nil {
			t.Fatal(err)
		}
		stream = append(stream, bits...)
	}

	d := mustDecoder(t, opts)
	var got []string
	for len(stream) > 0 {
		n := 7
		if n > len(stream) {
			n = len(stream)
		}
		for _, p := range d.DecodeBits(stream[:n]) {
			got = append(got, string(p))
		}
		stream = stream[n:]
	}
	if !reflect.DeepEqual(got, words) {
		t.Errorf("decoded %v, want %v", got, words)
	}
	if s := d.Stats(); s.Packets != 4 || s.Dropped != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestChecksumSoundness(t *testing.T) {
	payload := []byte("hello world")
	headerBits := len(DefaultPreamble)*8 + LengthBits

	tests := []struct {
		name      string
		alg       checksum.Algorithm
		wantValid bool
	}{
		{"crc24 rejects", checksum.CRC24{}, false},
		{"none accepts", checksum.None{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Checksum: tt.alg}
			bits, err := mustEncoder(t, opts).EncodeBits(payload)
			if err != nil {
				t.Fatal(err)
			}
			for i := headerBits; i < len(bits); i++ {
				flipped := append([]byte(nil), bits...)
				flipped[i] ^= 1

				p, err := NewPacket(opts)
				if err != nil {
					t.Fatal(err)
				}
				for _, b := range flipped {
					if err := p.Push(b); err != nil {
						t.Fatalf("Push() error = %v", err)
					}
				}
				if !p.Fulfilled() {
					t.Fatalf("bit %d: packet not fulfilled", i)
				}
				if p.Valid() != tt.wantValid {
					t.Errorf("bit %d: Valid() = %v, want %v", i, p.Valid(), tt.wantValid)
				}
			}
		})
	}
}

func TestPreambleSelectivity(t *testing.T) {
	a := mustEncoder(t, Options{Preamble: []byte{1, 2, 3, 4, 5, 6}})
	b := mustEncoder(t, Options{})

	hello, err := a.EncodeString("hello world")
	if err != nil {
		t.Fatal(err)
	}
	goodbye, err := b.EncodeString("goodbye world")
	if err != nil {
		t.Fatal(err)
	}
	stream := append(append([]byte{}, hello...), goodbye...)

	got := mustDecoder(t, Options{}).Decode(stream)
	if len(got) != 1 || string(got[0]) != "goodbye world" {
		t.Errorf("default decoder got %q, want only goodbye world", got)
	}

	got = mustDecoder(t, Options{Preamble: []byte{1, 2, 3, 4, 5, 6}}).Decode(stream)
	if len(got) != 1 || string(got[0]) != "hello world" {
		t.Errorf("custom decoder got %q, want only hello world", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	opts := Options{Checksum: checksum.CRC24{}}
	p, err := NewPacket(opts)
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := mustEncoder(t, opts).EncodeBits([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		var bits []byte
		if i%2 == 0 {
			bits = encoded[:rng.Intn(len(encoded)+1)]
		} else {
			bits = make([]byte, rng.Intn(200))
			for j := range bits {
				bits[j] = byte(rng.Intn(2))
			}
		}
		for _, b := range bits {
			p.Push(b)
		}
		p.Clear()
		p.Clear()

		if p.Fulfilled() {
			t.Fatalf("iteration %d: fulfilled after clear", i)
		}
		if p.Preamble().Valid() {
			t.Fatalf("iteration %d: preamble valid after clear", i)
		}
		if p.Length().Cursor() != 0 || p.PayloadField().Cursor() != 0 || p.ChecksumField().Cursor() != 0 {
			t.Fatalf("iteration %d: cursors %d/%d/%d after clear", i,
				p.Length().Cursor(), p.PayloadField().Cursor(), p.ChecksumField().Cursor())
		}
		if p.PayloadField().End() != -1 {
			t.Fatalf("iteration %d: payload end %d after clear", i, p.PayloadField().End())
		}
	}
}

func TestDecoderDropsCorruptPacket(t *testing.T) {
	opts := Options{Checksum: checksum.CRC24{}}
	e := mustEncoder(t, opts)
	first, _ := e.EncodeBits([]byte("first"))
	second, _ := e.EncodeBits([]byte("second"))

	// corrupt the last payload bit of the first packet
	first[len(first)-25] ^= 1

	d := mustDecoder(t, opts)
	got := d.DecodeBits(append(first, second...))
	if len(got) != 1 || string(got[0]) != "second" {
		t.Errorf("DecodeBits() = %q, want [second]", got)
	}
	if s := d.Stats(); s.Dropped != 1 || s.Packets != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestDecoderAbandonsOversizedLength(t *testing.T) {
	opts := Options{Checksum: checksum.CRC24{}}
	bogus := bitseq.Unpack([]byte{0xAA, 0xAA, 0xAA, 0xFF, 0xFF})
	valid, err := mustEncoder(t, opts).EncodeBits([]byte("ok"))
	if err != nil {
		t.Fatal(err)
	}

	d := mustDecoder(t, opts)
	got := d.DecodeBits(append(bogus, valid...))
	if len(got) != 1 || string(got[0]) != "ok" {
		t.Errorf("DecodeBits() = %q, want [ok]", got)
	}
	if s := d.Stats(); s.Overflows != 1 {
		t.Errorf("Stats().Overflows = %d, want 1", s.Overflows)
	}
}

func TestPacketPushOverflowError(t *testing.T) {
	p, err := NewPacket(Options{MaxPayload: 4})
	if err != nil {
		t.Fatal(err)
	}
	var lastErr error
	for _, b := range bitseq.Unpack([]byte{0xAA, 0xAA, 0xAA, 0x00, 0x05}) {
		if err := p.Push(b); err != nil {
			lastErr = err
		}
	}
	if !errors.Is(lastErr, ErrPayloadTooLarge) {
		t.Errorf("Push() error = %v, want ErrPayloadTooLarge", lastErr)
	}
	if p.Preamble().Valid() || p.Length().Cursor() != 0 {
		t.Errorf("packet not cleared after overflow")
	}
}
