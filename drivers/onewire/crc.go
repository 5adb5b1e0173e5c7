package onewire

// CRC8 is the Dallas/Maxim 1-Wire checksum (x^8+x^5+x^4+1, LSB first,
// init 0). Running it over data followed by its CRC yields 0.
func CRC8(p []byte) byte {
	var crc byte
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ 0x8C
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
