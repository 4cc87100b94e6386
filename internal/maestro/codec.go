// internal/maestro/codec.go
package maestro

// Data bytes in Pololu commands carry 7 bits each; a 14-bit value is
// split across two bytes. Responses to GET_POSITION and GET_ERRORS use
// plain byte-aligned 16-bit words instead. The two reconstructions are
// different on purpose and must not be conflated.

// maxWord is the largest value a 7-bit pair can carry.
const maxWord = 0x3FFF

// packWord splits a 14-bit value into its (lsb, msb) 7-bit pair.
func packWord(value int) (lsb, msb byte, err error) {
	if value < 0 || value > maxWord {
		return 0, 0, &ValueRangeError{Value: value}
	}
	return byte(value & 0x7F), byte((value >> 7) & 0x7F), nil
}

// unpackWord is the exact inverse of packWord.
func unpackWord(lsb, msb byte) int {
	return int(msb&0x7F)<<7 | int(lsb&0x7F)
}

// responseWord reconstructs a byte-aligned response word, low byte
// first, as sent for GET_POSITION.
func responseWord(lsb, msb byte) int {
	return int(msb)<<8 | int(lsb)
}
