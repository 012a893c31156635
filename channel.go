package servo

import (
	"fmt"
	"strconv"
	"strings"
)

// Channel identifies one of the two servo outputs
type Channel byte

const (
	ChannelA Channel = 'A'
	ChannelB Channel = 'B'
)

// Channels lists every channel in display order
var Channels = []Channel{ChannelA, ChannelB}

// Angle limits in degrees, inclusive
const (
	MinAngle = 0
	MaxAngle = 180
)

func (c Channel) String() string {
	return string(c)
}

// Valid reports whether c is ChannelA or ChannelB
func (c Channel) Valid() bool {
	return c == ChannelA || c == ChannelB
}

// ParseChannel accepts "A" or "B" in either case
func ParseChannel(s string) (Channel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return ChannelA, nil
	case "B":
		return ChannelB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidChannel, s)
	}
}

// ClampAngle limits angle to [MinAngle, MaxAngle]
func ClampAngle(angle int) int {
	switch {
	case angle < MinAngle:
		return MinAngle
	case angle > MaxAngle:
		return MaxAngle
	default:
		return angle
	}
}

// FormatCommand encodes a move as S<channel>:<angle>\n, clamping the angle first.
func FormatCommand(ch Channel, angle int) string {
	return "S" + ch.String() + ":" + strconv.Itoa(ClampAngle(angle)) + "\n"
}
