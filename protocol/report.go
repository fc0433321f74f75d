package protocol

import (
	"bytes"
	"errors"
)

var ErrNotReport = errors.New("not a frequency report")

// EncodeReport writes one report line for value into output
func EncodeReport(output OutputBuffer, value uint16) {
	var digits [5]byte
	output.Output([]byte(ReportPrefix))
	output.Output(AppendUint(digits[:0], uint32(value)))
	output.Output([]byte(ReportSuffix))
}

// ParseReport extracts the number from a report line. The trailing CR/LF
// may be present or already stripped.
func ParseReport(line []byte) (uint16, error) {
	line = bytes.TrimRight(line, "\r\n")
	if !bytes.HasPrefix(line, []byte(ReportPrefix)) {
		return 0, ErrNotReport
	}
	line = line[len(ReportPrefix):]
	suffix := bytes.TrimRight([]byte(ReportSuffix), "\r\n")
	if !bytes.HasSuffix(line, suffix) {
		return 0, ErrNotReport
	}
	digits := line[:len(line)-len(suffix)]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, ErrBadDigit
	}
	v, err := ParseUint(digits)
	if err != nil {
		return 0, err
	}
	if v > 0xFFFF {
		return 0, ErrOverflow
	}
	return uint16(v), nil
}
