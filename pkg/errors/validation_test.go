package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"lockfile", "package-lock.json", false},
		{"state file", "node_modules/.yarn-state.yml", false},
		{"member manifest", "packages/app/package.json", false},
		{"dotted name", "a..b/package.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../package.json", true},
		{"nested traversal", "packages/../../x", true},
		{"backslash", "packages\\app", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
