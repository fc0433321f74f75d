package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendUint(t *testing.T) {
	testCases := []struct {
		value    uint32
		expected string
	}{
		{0, "0"},
		{7, "7"},
		{10, "10"},
		{124, "124"},
		{1311, "1311"},
		{2499, "2499"},
		{65535, "65535"},
		{4294967295, "4294967295"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, string(AppendUint(nil, tc.value)))
		})
	}
}

func TestAppendUintKeepsPrefix(t *testing.T) {
	out := AppendUint([]byte("v="), 305)
	assert.Equal(t, "v=305", string(out))
}

func TestDecimalRoundTrip(t *testing.T) {
	for v := uint32(124); v <= 2499; v++ {
		got, err := ParseUint(AppendUint(nil, v))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestParseUintErrors(t *testing.T) {
	_, err := ParseUint(nil)
	assert.ErrorIs(t, err, ErrEmptyNumber)

	_, err = ParseUint([]byte("12a"))
	assert.ErrorIs(t, err, ErrBadDigit)

	_, err = ParseUint([]byte("4294967296"))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestEncodeReport(t *testing.T) {
	scratch := NewScratchOutput()
	EncodeReport(scratch, 1311)
	assert.Equal(t, "Frequency is 1311 Hz\r\n", string(scratch.Result()))
	assert.LessOrEqual(t, scratch.CurPosition(), ReportMaxLen)
}

func TestEncodeReportFitsMaxLen(t *testing.T) {
	for _, v := range []uint16{0, 124, 242, 999, 2499, 65535} {
		scratch := NewScratchOutput()
		EncodeReport(scratch, v)
		assert.LessOrEqual(t, scratch.CurPosition(), ReportMaxLen)
	}
}

func TestParseReport(t *testing.T) {
	testCases := []struct {
		name  string
		line  string
		value uint16
		err   error
	}{
		{"full line", "Frequency is 242 Hz\r\n", 242, nil},
		{"stripped", "Frequency is 2499 Hz", 2499, nil},
		{"lf only", "Frequency is 124 Hz\n", 124, nil},
		{"wrong prefix", "Freq is 242 Hz\r\n", 0, ErrNotReport},
		{"wrong suffix", "Frequency is 242 kHz\r\n", 0, ErrNotReport},
		{"leading zero", "Frequency is 0242 Hz\r\n", 0, ErrBadDigit},
		{"no digits", "Frequency is  Hz\r\n", 0, ErrEmptyNumber},
		{"too large", "Frequency is 70000 Hz\r\n", 0, ErrOverflow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ParseReport([]byte(tc.line))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.value, v)
		})
	}
}

func TestReportRoundTrip(t *testing.T) {
	for v := uint16(124); v <= 2499; v++ {
		scratch := NewScratchOutput()
		EncodeReport(scratch, v)
		got, err := ParseReport(scratch.Result())
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestCompareToHz(t *testing.T) {
	assert.Equal(t, uint32(1000), CompareToHz(124))
	assert.Equal(t, uint32(50), CompareToHz(2499))
	assert.Equal(t, uint32(440), CompareToHz(283))
	assert.Equal(t, uint64(1000000), CompareToPeriodNano(124))
	assert.Equal(t, uint64(20000000), CompareToPeriodNano(2499))
}

func TestUBRR(t *testing.T) {
	assert.Equal(t, uint16(103), UBRR(ClockHz, BaudRate))
}
