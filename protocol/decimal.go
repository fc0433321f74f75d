package protocol

import "errors"

var (
	ErrEmptyNumber = errors.New("empty number")
	ErrBadDigit    = errors.New("invalid decimal digit")
	ErrOverflow    = errors.New("number overflows uint32")
)

// AppendUint appends the decimal form of v to dst, most significant digit
// first and without leading zeros. Digits are produced least significant
// first and reversed in place, which needs no scratch buffer.
func AppendUint(dst []byte, v uint32) []byte {
	start := len(dst)
	for {
		dst = append(dst, byte('0'+v%10))
		v /= 10
		if v == 0 {
			break
		}
	}
	for i, j := start, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}

// ParseUint parses an unsigned decimal number
func ParseUint(b []byte) (uint32, error) {
	if len(b) == 0 {
		return 0, ErrEmptyNumber
	}
	var v uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrBadDigit
		}
		v = v*10 + uint64(c-'0')
		if v > 0xFFFFFFFF {
			return 0, ErrOverflow
		}
	}
	return uint32(v), nil
}
