package utils

import "testing"

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain digits", "96170123456", "96170123456", false},
		{"leading plus", "+96170123456", "+96170123456", false},
		{"spaces and dashes stripped", " +961 70-123-456 ", "+96170123456", false},
		{"dots stripped", "961.70.123.456", "96170123456", false},
		{"too short", "1234567", "", true},
		{"too long", "1234567890123456", "", true},
		{"plus in middle", "961+70123456", "", true},
		{"double plus", "++96170123456", "", true},
		{"empty", "", "", true},
		{"letters only", "not-a-phone", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePhone(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  <b>name</b>\x00  "); got != "&lt;b&gt;name&lt;/b&gt;" {
		t.Errorf("unexpected sanitized value %q", got)
	}
}
