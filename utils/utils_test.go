package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUtils_MinMaxClamp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1, Min(1, 2))
	assert.Equal(1, Min(2, 1))
	assert.Equal(2, Max(1, 2))
	assert.Equal(2.5, Max(2.5, -1.0))

	assert.Equal(0.3, Clamp(0.1, 0.3, 3.0))
	assert.Equal(3.0, Clamp(4.2, 0.3, 3.0))
	assert.Equal(1.5, Clamp(1.5, 0.3, 3.0))

	assert.Equal(3, Abs(-3))
	assert.Equal(0.5, Abs(0.5))
}

func TestUtils_DecorateText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(ErrorColor+"boom"+DefaultColor, DecorateText("boom", ErrorMessage))
	assert.Equal(SuccessColor+"ok"+DefaultColor, DecorateText("ok", SuccessMessage))
	assert.Equal("plain", DecorateText("plain", MessageType(42)))
}

func TestUtils_FormatTime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{2*time.Minute + 3*time.Second, "2m 3.00s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h 2m 3.00s"},
		{49*time.Hour + 30*time.Second, "2d 1h 0m 30.00s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTime(tt.in))
	}
}

func TestUtils_SpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer

	s := NewSpinner("working", time.Millisecond, false)
	s.SetWriter(&buf)
	s.StopMsg = "done"

	s.Start()
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	s.Stop()

	assert.True(t, strings.HasSuffix(buf.String(), "done"))
	assert.Contains(t, buf.String(), "working")
}
