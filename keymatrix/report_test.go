package keymatrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	r := NewReport(0, []UsageCode{DefaultA, DefaultB})

	require.Equal(t, Report{0, 0, byte(DefaultA), byte(DefaultB), 0, 0, 0, 0}, r)
}

func TestNewReportTruncatesPastSix(t *testing.T) {
	codes := make([]UsageCode, 8)
	for i := range codes {
		codes[i] = UsageCode(0x04 + i)
	}

	r := NewReport(0, codes)

	for i := 0; i < 6; i++ {
		require.Equal(t, byte(0x04+i), r[2+i])
	}
}
