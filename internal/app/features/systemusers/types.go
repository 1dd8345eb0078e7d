// internal/app/features/systemusers/types.go
package systemusers

import (
	"strings"

	userstore "github.com/dalemusser/programhub/internal/app/store/users"
)

type createInput struct {
	Email       string `json:"email" validate:"required,email,max=254" label:"Email"`
	DisplayName string `json:"display_name" validate:"required,notblank,max=200" label:"Display name"`
	Role        string `json:"role" validate:"required,role" label:"Role"`
	// Empty means the account signs in with Google only.
	Password string `json:"password" validate:"omitempty,min=8,max=200" label:"Password"`
}

func (in createInput) newUser() userstore.NewUser {
	return userstore.NewUser{
		Email:       strings.TrimSpace(in.Email),
		DisplayName: in.DisplayName,
		Role:        in.Role,
		Password:    in.Password,
	}
}

type updateInput struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,notblank,max=200" label:"Display name"`
	Role        *string `json:"role,omitempty" validate:"omitempty,role" label:"Role"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive" label:"Status"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8,max=200" label:"Password"`
}

func (in updateInput) patch() userstore.Patch {
	p := userstore.Patch{
		DisplayName: in.DisplayName,
		Status:      in.Status,
		Password:    in.Password,
	}
	if in.Role != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Role))
		p.Role = &v
	}
	return p
}

// fields names what a patch touches, for the audit trail. Password changes
// are recorded without the value.
func (in updateInput) fields() []string {
	var out []string
	if in.DisplayName != nil {
		out = append(out, "display_name")
	}
	if in.Role != nil {
		out = append(out, "role")
	}
	if in.Status != nil {
		out = append(out, "status")
	}
	if in.Password != nil {
		out = append(out, "password")
	}
	return out
}
