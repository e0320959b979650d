package cmd

import (
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes lowercase", "y\n", true},
		{"yes word", "yes\n", true},
		{"yes uppercase", "Y\n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage", "maybe\n", false},
		{"no newline", "y", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confirm(strings.NewReader(tt.input), "Continue?")
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindStagedImagesMatchesOnlyPastePattern(t *testing.T) {
	staged, err := findStagedImages()
	if err != nil {
		t.Fatalf("findStagedImages() error = %v", err)
	}
	for _, path := range staged {
		if !strings.Contains(path, "fitdesk-paste-") {
			t.Errorf("unexpected path %q", path)
		}
	}
}
