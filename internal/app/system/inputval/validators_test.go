package inputval

import "testing"

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"coordinator", true},
		{"viewer", true},

		// case insensitive
		{"ADMIN", true},
		{"Coordinator", true},

		// whitespace is trimmed
		{"  viewer  ", true},
		{"\tadmin\t", true},

		{"", false},
		{"   ", false},
		{"superadmin", false},
		{"member", false},
		{"guest", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := IsValidRole(tt.role)
			if got != tt.want {
				t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestAllowedRolesList(t *testing.T) {
	list := AllowedRolesList()

	expected := []string{"admin", "coordinator", "viewer"}
	if len(list) != len(expected) {
		t.Fatalf("AllowedRolesList() has %d items, want %d", len(list), len(expected))
	}
	for i, want := range expected {
		if list[i] != want {
			t.Errorf("AllowedRolesList()[%d] = %q, want %q", i, list[i], want)
		}
	}

	list[0] = "changed"
	if AllowedRolesList()[0] != "admin" {
		t.Error("AllowedRolesList must return a copy")
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-01-31", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-13-01", false},
		{"2025-1-01", false},
		{"01/31/2025", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := IsValidDate(tt.date); got != tt.want {
				t.Errorf("IsValidDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"lower hex", "64b7f0c2a1e4d3b2c1a09f8e", true},
		{"upper hex", "64B7F0C2A1E4D3B2C1A09F8E", true},
		{"padded", " 64b7f0c2a1e4d3b2c1a09f8e ", true},
		{"short", "64b7f0c2a1e4d3b2c1a09f8", false},
		{"long", "64b7f0c2a1e4d3b2c1a09f8e0", false},
		{"not hex", "64b7f0c2a1e4d3b2c1a09fzz", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidObjectID(tt.id); got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

type cohortBody struct {
	Name      string `json:"name" validate:"required,notblank,max=12" label:"Name"`
	ProgramID string `json:"program_id" validate:"required,objectid" label:"Program"`
	StartDate string `json:"start_date" validate:"required,date" label:"Start date"`
	Months    int    `json:"months" validate:"gte=1,lte=12" label:"Duration"`
}

func validCohort() cohortBody {
	return cohortBody{Name: "Spring", ProgramID: "64b7f0c2a1e4d3b2c1a09f8e", StartDate: "2025-03-01", Months: 6}
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *cohortBody)
		field  string
		msg    string
	}{
		{"blank name", func(b *cohortBody) { b.Name = "   " }, "name", "Name is required."},
		{"long name", func(b *cohortBody) { b.Name = "Spring cohort 2025" }, "name", "Name must be at most 12 characters."},
		{"bad program id", func(b *cohortBody) { b.ProgramID = "p1" }, "program_id", "Program must be a valid id."},
		{"bad date", func(b *cohortBody) { b.StartDate = "2025-02-30" }, "start_date", "Start date must be a date in YYYY-MM-DD format."},
		{"zero months", func(b *cohortBody) { b.Months = 0 }, "months", "Duration must be 1 or more."},
		{"too many months", func(b *cohortBody) { b.Months = 13 }, "months", "Duration must be 12 or less."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validCohort()
			tt.mutate(&b)
			res := Validate(b)
			if !res.HasErrors() {
				t.Fatal("expected errors")
			}
			if got := res.Fields()[tt.field]; got != tt.msg {
				t.Errorf("Fields()[%q] = %q, want %q", tt.field, got, tt.msg)
			}
		})
	}

	if res := Validate(validCohort()); res.HasErrors() {
		t.Errorf("valid body rejected: %s", res.All())
	}
	if res := Validate(&cohortBody{}); len(res.Errors) < 3 {
		t.Errorf("pointer input: got %d errors, want several", len(res.Errors))
	}
}

func TestResult_Accessors(t *testing.T) {
	var none *Result
	if none.HasErrors() || none.First() != "" || none.All() != "" || len(none.Fields()) != 0 {
		t.Error("nil Result should be empty")
	}

	r := &Result{Errors: []FieldError{
		{Field: "name", Message: "Name is required."},
		{Field: "name", Message: "Name is invalid."},
		{Field: "program_id", Message: "Program must be a valid id."},
	}}
	if r.First() != "Name is required." {
		t.Errorf("First() = %q", r.First())
	}
	if want := "Name is required.; Name is invalid.; Program must be a valid id."; r.All() != want {
		t.Errorf("All() = %q", r.All())
	}
	if f := r.Fields(); len(f) != 2 || f["name"] != "Name is required." {
		t.Errorf("Fields() = %v, want first message per field", f)
	}
}

func TestValidate_RoleRule(t *testing.T) {
	type body struct {
		Role string `json:"role" validate:"required,role" label:"Role"`
	}
	if res := Validate(body{Role: "Coordinator"}); res.HasErrors() {
		t.Errorf("unexpected errors: %s", res.All())
	}
	res := Validate(body{Role: "superadmin"})
	if got := res.Fields()["role"]; got != "Role must be one of: admin, coordinator, viewer." {
		t.Errorf("role message = %q", got)
	}
}

func TestResult_FieldsUseJSONNames(t *testing.T) {
	type body struct {
		Name   *string `json:"name" validate:"omitempty,notblank,max=5" label:"Name"`
		Status string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive" label:"Status"`
	}

	long := "toolong"
	result := Validate(body{Name: &long, Status: "archived"})
	fields := result.Fields()
	if fields["name"] != "Name must be at most 5 characters." {
		t.Errorf("fields[name] = %q", fields["name"])
	}
	if fields["status"] != "Status must be one of: active, inactive." {
		t.Errorf("fields[status] = %q", fields["status"])
	}

	if got := Validate(body{}).Fields(); len(got) != 0 {
		t.Errorf("expected no errors for an empty patch, got %v", got)
	}
}
