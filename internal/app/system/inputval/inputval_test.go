package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"plain", "coordinator@example.org", true},
		{"plus tag", "jane+cohorts@example.org", true},
		{"dotted local", "jane.doe@mail.example.org", true},
		{"single label domain", "ops@localhost", true},

		{"empty", "", false},
		{"blank", "  ", false},
		{"no at", "jane.example.org", false},
		{"no domain", "jane@", false},
		{"no local", "@example.org", false},
		{"leading dot", ".jane@example.org", false},
		{"double dot local", "jane..doe@example.org", false},
		{"double dot domain", "jane@example..org", false},
		{"display name", "Jane Doe <jane@example.org>", false},
		{"inner space", "jane doe@example.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate_EmailTagUsesStrictCheck(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email" label:"Email"`
	}

	if res := Validate(in{Email: "jane@example.org"}); res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.All())
	}

	res := Validate(in{Email: "Jane <jane@example.org>"})
	if got := res.Fields()["email"]; got != "A valid email address is required." {
		t.Errorf("email message = %q", got)
	}
}
