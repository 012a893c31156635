package servo

import (
	"errors"
	"strconv"
	"testing"
)

func TestClampAngle(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-1000, 0},
		{-1, 0},
		{0, 0},
		{1, 1},
		{90, 90},
		{179, 179},
		{180, 180},
		{181, 180},
		{100000, 180},
	}

	for _, tt := range tests {
		if got := ClampAngle(tt.input); got != tt.expected {
			t.Errorf("ClampAngle(%d) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		channel  Channel
		angle    int
		expected string
	}{
		{ChannelA, 0, "SA:0\n"},
		{ChannelA, 90, "SA:90\n"},
		{ChannelB, 180, "SB:180\n"},
		{ChannelB, 7, "SB:7\n"},
		{ChannelA, -5, "SA:0\n"},
		{ChannelB, 200, "SB:180\n"},
	}

	for _, tt := range tests {
		if got := FormatCommand(tt.channel, tt.angle); got != tt.expected {
			t.Errorf("FormatCommand(%s, %d) = %q, expected %q", tt.channel, tt.angle, got, tt.expected)
		}
	}
}

// Every in-range angle is sent verbatim with no padding or sign
func TestFormatCommandFullRange(t *testing.T) {
	for _, ch := range Channels {
		for angle := MinAngle; angle <= MaxAngle; angle++ {
			want := "S" + string(rune(ch)) + ":" + strconv.Itoa(angle) + "\n"
			if got := FormatCommand(ch, angle); got != want {
				t.Fatalf("FormatCommand(%s, %d) = %q, expected %q", ch, angle, got, want)
			}
		}
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input    string
		expected Channel
		wantErr  bool
	}{
		{"A", ChannelA, false},
		{"a", ChannelA, false},
		{" B ", ChannelB, false},
		{"b", ChannelB, false},
		{"C", 0, true},
		{"", 0, true},
		{"AB", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseChannel(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidChannel) {
				t.Errorf("ParseChannel(%q) error = %v, expected ErrInvalidChannel", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseChannel(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseChannel(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestChannelValid(t *testing.T) {
	if !ChannelA.Valid() || !ChannelB.Valid() {
		t.Error("A and B must be valid channels")
	}
	if Channel('C').Valid() || Channel(0).Valid() {
		t.Error("only A and B are valid channels")
	}
}
