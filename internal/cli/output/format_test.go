package output

import "testing"

func TestFormatHeader(t *testing.T) {
	tests := []struct {
		name  string
		level int
		text  string
		want  string
	}{
		{name: "level 1", level: 1, text: "Title", want: "# Title"},
		{name: "level 3", level: 3, text: "Section", want: "### Section"},
		{name: "clamped low", level: 0, text: "Title", want: "# Title"},
		{name: "clamped high", level: 9, text: "Deep", want: "###### Deep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatHeader(tt.level, tt.text); got != tt.want {
				t.Errorf("FormatHeader(%d, %q) = %q, want %q", tt.level, tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatKeyValue(t *testing.T) {
	if got := FormatKeyValue("Records", 30); got != "**Records:** 30" {
		t.Errorf("FormatKeyValue() = %q", got)
	}
	if got := FormatKeyValue("Store", "data/raw.db"); got != "**Store:** data/raw.db" {
		t.Errorf("FormatKeyValue() = %q", got)
	}
}
