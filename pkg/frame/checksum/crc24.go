package checksum

const (
	crc24Init uint32 = 0xB704CE
	crc24Poly uint32 = 0x1864CFB
	crc24Mask uint32 = 0xFFFFFF
)

// CRC24 is the OpenPGP CRC-24.
type CRC24 struct{}

func (CRC24) Name() string { return "crc24" }
func (CRC24) Width() int   { return 24 }

func (CRC24) Calculate(data []byte) uint64 {
	crc := crc24Init
	for _, b := range data {
		crc ^= uint32(b) << 16
		for i := 0; i < 8; i++ {
			crc <<= 1
			if crc&0x1000000 != 0 {
				crc ^= crc24Poly
			}
		}
	}
	return uint64(crc & crc24Mask)
}
