// internal/app/features/instructors/types.go
package instructors

import (
	"strings"

	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	"github.com/dalemusser/programhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/programhub/internal/domain/models"
)

type createInput struct {
	FullName     string   `json:"full_name" validate:"required,notblank,max=200" label:"Full name"`
	Email        string   `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone        string   `json:"phone" validate:"max=50" label:"Phone"`
	ShortBio     string   `json:"short_bio" validate:"max=2000" label:"Short bio"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive" label:"Status"`
	Technologies []string `json:"technologies" validate:"max=50,dive,notblank,max=100" label:"Technologies"`
}

func (in createInput) instructor() models.Instructor {
	return models.Instructor{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		ShortBio:     htmlsanitize.Clean(in.ShortBio),
		Status:       in.Status,
		Technologies: cleanTechs(in.Technologies),
	}
}

type updateInput struct {
	FullName     *string   `json:"full_name,omitempty" validate:"omitempty,notblank,max=200" label:"Full name"`
	Email        *string   `json:"email,omitempty" validate:"omitempty,email,max=254" label:"Email"`
	Phone        *string   `json:"phone,omitempty" validate:"omitempty,max=50" label:"Phone"`
	ShortBio     *string   `json:"short_bio,omitempty" validate:"omitempty,max=2000" label:"Short bio"`
	Status       *string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive" label:"Status"`
	Technologies *[]string `json:"technologies,omitempty" validate:"omitempty,max=50,dive,notblank,max=100" label:"Technologies"`
}

func (in updateInput) patch() instructorstore.Patch {
	p := instructorstore.Patch{
		Email:    in.Email,
		ShortBio: htmlsanitize.CleanPtr(in.ShortBio),
		Status:   in.Status,
	}
	if in.FullName != nil {
		v := strings.TrimSpace(*in.FullName)
		p.FullName = &v
	}
	if in.Phone != nil {
		v := strings.TrimSpace(*in.Phone)
		p.Phone = &v
	}
	if in.Technologies != nil {
		techs := cleanTechs(*in.Technologies)
		p.Technologies = &techs
	}
	return p
}

// cleanTechs trims entries and drops case-insensitive duplicates, keeping
// the first spelling.
func cleanTechs(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
