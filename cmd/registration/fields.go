package main

import (
	"strings"

	regmodels "capreg/internal/registration/models"
)

// field is one form prompt, keyed by the draft's JSON name so validation
// messages can be matched back to it.
type field struct {
	name   string
	label  string
	secret bool
	get    func(regmodels.Draft) string
	set    func(string) regmodels.DraftPatch
}

type section struct {
	title  string
	fields []field
}

func text(name, label string, get func(regmodels.Draft) string, set func(*regmodels.DraftPatch, *string)) field {
	return field{
		name:  name,
		label: label,
		get:   get,
		set: func(v string) regmodels.DraftPatch {
			var p regmodels.DraftPatch
			set(&p, &v)
			return p
		},
	}
}

func gender(name, label string, get func(regmodels.Draft) regmodels.Gender, set func(*regmodels.DraftPatch, *regmodels.Gender)) field {
	return field{
		name:  name,
		label: label,
		get:   func(d regmodels.Draft) string { return string(get(d)) },
		set: func(v string) regmodels.DraftPatch {
			var p regmodels.DraftPatch
			set(&p, regmodels.Ptr(normalizeGender(v)))
			return p
		},
	}
}

func secret(f field) field {
	f.secret = true
	return f
}

// normalizeGender accepts any casing and the first letter.
func normalizeGender(v string) regmodels.Gender {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "m", "male":
		return regmodels.GenderMale
	case "f", "female":
		return regmodels.GenderFemale
	case "o", "other":
		return regmodels.GenderOther
	}
	return regmodels.Gender(v)
}

func formSections() []section {
	return []section{
		{
			title: "Step 2a: personal details",
			fields: []field{
				text("candidateName", "Candidate name",
					func(d regmodels.Draft) string { return d.CandidateName },
					func(p *regmodels.DraftPatch, v *string) { p.CandidateName = v }),
				text("fatherName", "Father's name",
					func(d regmodels.Draft) string { return d.FatherName },
					func(p *regmodels.DraftPatch, v *string) { p.FatherName = v }),
				text("motherName", "Mother's name",
					func(d regmodels.Draft) string { return d.MotherName },
					func(p *regmodels.DraftPatch, v *string) { p.MotherName = v }),
				gender("gender", "Gender (Male/Female/Other)",
					func(d regmodels.Draft) regmodels.Gender { return d.Gender },
					func(p *regmodels.DraftPatch, v *regmodels.Gender) { p.Gender = v }),
				gender("genderConfirm", "Confirm gender",
					func(d regmodels.Draft) regmodels.Gender { return d.GenderConfirm },
					func(p *regmodels.DraftPatch, v *regmodels.Gender) { p.GenderConfirm = v }),
				text("dob", "Date of birth (YYYY-MM-DD)",
					func(d regmodels.Draft) string { return d.DOB },
					func(p *regmodels.DraftPatch, v *string) { p.DOB = v }),
				text("dobConfirm", "Confirm date of birth",
					func(d regmodels.Draft) string { return d.DOBConfirm },
					func(p *regmodels.DraftPatch, v *string) { p.DOBConfirm = v }),
				text("religion", "Religion (optional)",
					func(d regmodels.Draft) string { return d.Religion },
					func(p *regmodels.DraftPatch, v *string) { p.Religion = v }),
				text("nationality", "Nationality (optional)",
					func(d regmodels.Draft) string { return d.Nationality },
					func(p *regmodels.DraftPatch, v *string) { p.Nationality = v }),
			},
		},
		{
			title: "Step 2b: communication details",
			fields: []field{
				text("addressLine1", "Address line 1",
					func(d regmodels.Draft) string { return d.AddressLine1 },
					func(p *regmodels.DraftPatch, v *string) { p.AddressLine1 = v }),
				text("addressLine2", "Address line 2 (optional)",
					func(d regmodels.Draft) string { return d.AddressLine2 },
					func(p *regmodels.DraftPatch, v *string) { p.AddressLine2 = v }),
				text("addressLine3", "Address line 3 (optional)",
					func(d regmodels.Draft) string { return d.AddressLine3 },
					func(p *regmodels.DraftPatch, v *string) { p.AddressLine3 = v }),
				text("state", "State code (optional)",
					func(d regmodels.Draft) string { return d.State },
					func(p *regmodels.DraftPatch, v *string) { p.State = v }),
				text("district", "District code (optional)",
					func(d regmodels.Draft) string { return d.District },
					func(p *regmodels.DraftPatch, v *string) { p.District = v }),
				text("taluka", "Taluka code (optional)",
					func(d regmodels.Draft) string { return d.Taluka },
					func(p *regmodels.DraftPatch, v *string) { p.Taluka = v }),
				text("village", "Village code (optional)",
					func(d regmodels.Draft) string { return d.Village },
					func(p *regmodels.DraftPatch, v *string) { p.Village = v }),
				text("pinCode", "PIN code",
					func(d regmodels.Draft) string { return d.PinCode },
					func(p *regmodels.DraftPatch, v *string) { p.PinCode = v }),
				text("stdCode", "STD code (optional)",
					func(d regmodels.Draft) string { return d.StdCode },
					func(p *regmodels.DraftPatch, v *string) { p.StdCode = v }),
				text("telephoneNo", "Telephone (optional)",
					func(d regmodels.Draft) string { return d.TelephoneNo },
					func(p *regmodels.DraftPatch, v *string) { p.TelephoneNo = v }),
				text("mobileNo", "Mobile number",
					func(d regmodels.Draft) string { return d.MobileNo },
					func(p *regmodels.DraftPatch, v *string) { p.MobileNo = v }),
				text("email", "Email",
					func(d regmodels.Draft) string { return d.Email },
					func(p *regmodels.DraftPatch, v *string) { p.Email = v }),
			},
		},
		{
			title: "Step 2c: security",
			fields: []field{
				secret(text("password", "Password (8-13 chars, upper, lower, digit, one of @$!%*?&)",
					func(d regmodels.Draft) string { return d.Password },
					func(p *regmodels.DraftPatch, v *string) { p.Password = v })),
				secret(text("confirmPassword", "Confirm password",
					func(d regmodels.Draft) string { return d.ConfirmPassword },
					func(p *regmodels.DraftPatch, v *string) { p.ConfirmPassword = v })),
				{
					name:  "agreeToTerms",
					label: "I agree to the terms and conditions (y/n)",
					get: func(d regmodels.Draft) string {
						if d.AgreeToTerms {
							return "y"
						}
						return ""
					},
					set: func(v string) regmodels.DraftPatch {
						return regmodels.DraftPatch{AgreeToTerms: regmodels.Ptr(isYes(v))}
					},
				},
			},
		},
	}
}

func fieldByName(name string) field {
	for _, sec := range formSections() {
		for _, f := range sec.fields {
			if f.name == name {
				return f
			}
		}
	}
	panic("unknown form field " + name)
}
