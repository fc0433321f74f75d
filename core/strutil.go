package core

import "potbuzz/protocol"

// utoa converts an unsigned integer to a string without using fmt
func utoa(n uint32) string {
	return string(protocol.AppendUint(nil, n))
}

// itoa converts a signed integer to a string without using fmt
func itoa(n int32) string {
	if n < 0 {
		return "-" + string(protocol.AppendUint(nil, uint32(-int64(n))))
	}
	return utoa(uint32(n))
}
