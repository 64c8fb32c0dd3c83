package conversation

import "testing"

func TestIsTerminationMessage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"bare marker", "TERMINATE", true},
		{"marker after text", "The task is done. TERMINATE", true},
		{"trailing newline", "TERMINATE\n", true},
		{"trailing whitespace mix", "TERMINATE \t\r\n ", true},
		{"marker mid-message", "TERMINATE but wait, one more scene", false},
		{"lowercase", "terminate", false},
		{"continue reply", "CONTINUE", false},
		{"empty", "", false},
		{"marker with trailing period", "TERMINATE.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTerminationMessage(tt.content); got != tt.want {
				t.Errorf("IsTerminationMessage(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
