package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetNowFunc(t *testing.T) {
	restore := SetNowFunc(func() Timestamp { return 12345 })
	require.Equal(t, Timestamp(12345), Now())

	restore()
	require.InDelta(t, time.Now().Unix(), int64(Now()), 2)
}

func TestToTime(t *testing.T) {
	ts := Timestamp(1700000000)
	require.Equal(t, int64(1700000000), ToTime(ts).Unix())
}
