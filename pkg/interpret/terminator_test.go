package interpret

import "testing"

func TestIsMessageTerminator(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"terminator only", "L|1|N\r", true},
		{"terminator after records", "H|\\^&\rR|1|^^^GLU|5.4\rL|1|N\r", true},
		{"terminator without trailing CR", "R|1\rL|1", true},
		{"patient record last", "H|\\^&\rP|1\r", false},
		{"terminator not last", "L|1|N\rP|1\r", false},
		{"lowercase marker", "l|1|N\r", false},
		{"leading space", " L|1\r", false},
		{"empty text", "", false},
		{"only separators", "\r\r", false},
		{"no separator", "R|1|^^^GLU", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, typ := range []FrameType{FrameTypeIntermediate, FrameTypeEnd, FrameTypeUnknown} {
				got := IsMessageTerminator(Frame{Text: tt.text, Type: typ})
				if got != tt.want {
					t.Errorf("IsMessageTerminator(%q, %s) = %v, want %v", tt.text, typ, got, tt.want)
				}
			}
		})
	}
}
