// Package validation holds the field rules a draft must satisfy before it is
// submitted, with the messages shown next to each field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"capreg/internal/registration/models"
)

var (
	mobilePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	pinCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	symbolPattern  = regexp.MustCompile(`[@$!%*?&]`)
)

// Rules on the submitted draft, keyed by Go field name.
var draftRules = map[string]string{
	"ExamType":        "required,examtype",
	"ExamRollNumber":  "required",
	"CandidateName":   "required",
	"FatherName":      "required",
	"MotherName":      "required",
	"Gender":          "required,gender",
	"GenderConfirm":   "required,eqfield=Gender",
	"DOB":             "required",
	"DOBConfirm":      "required,eqfield=DOB",
	"MobileNo":        "required,mobile",
	"Email":           "required,email",
	"AddressLine1":    "required",
	"PinCode":         "required,pincode",
	"Password":        "required,min=8,max=13,password",
	"ConfirmPassword": "required,eqfield=Password",
	"AgreeToTerms":    "eq=true",
}

// Rules on the exam lookup request.
var examRules = map[string]string{
	"ExamType":    "required,examtype",
	"RollNumber":  "required",
	"DateOfBirth": "required",
}

// Messages keyed by JSON field name, then by failing tag.
var messages = map[string]map[string]string{
	"examType": {
		"required": "Exam type is required",
		"examtype": "Exam type must be NEET or MHT-CET",
	},
	"examRollNumber": {"required": "Roll number is required"},
	"rollNumber":     {"required": "Roll number is required"},
	"dateOfBirth":    {"required": "Date of birth is required"},
	"candidateName":  {"required": "Candidate name is required"},
	"fatherName":     {"required": "Father name is required"},
	"motherName":     {"required": "Mother name is required"},
	"gender": {
		"required": "Gender is required",
		"gender":   "Gender must be Male, Female or Other",
	},
	"genderConfirm": {
		"required": "Please confirm gender",
		"eqfield":  "Gender must match",
	},
	"dob": {"required": "Date of birth is required"},
	"dobConfirm": {
		"required": "Please confirm date of birth",
		"eqfield":  "Date of birth must match",
	},
	"mobileNo": {
		"required": "Mobile number is required",
		"mobile":   "Mobile number must be 10 digits",
	},
	"email": {
		"required": "Email is required",
		"email":    "Invalid email format",
	},
	"addressLine1": {"required": "Address is required"},
	"pinCode": {
		"required": "PIN code is required",
		"pincode":  "PIN code must be 6 digits",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 8 characters",
		"max":      "Password must not exceed 13 characters",
		"password": "Password must contain uppercase, lowercase, number and special character",
	},
	"confirmPassword": {
		"required": "Please confirm password",
		"eqfield":  "Passwords must match",
	},
	"agreeToTerms": {"eq": "You must agree to terms and conditions"},
}

// FieldErrors maps a JSON field name to the message for its first failing rule.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks drafts and exam requests. Safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	// JSON name -> Go field name on models.Draft
	draftFields map[string]string
}

// New builds a Validator with the registration rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "pincode", func(fl validator.FieldLevel) bool {
		return pinCodePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		return lowerPattern.MatchString(p) &&
			upperPattern.MatchString(p) &&
			digitPattern.MatchString(p) &&
			symbolPattern.MatchString(p)
	})
	mustRegister(v, "examtype", func(fl validator.FieldLevel) bool {
		return models.ExamType(fl.Field().String()).IsValid()
	})
	mustRegister(v, "gender", func(fl validator.FieldLevel) bool {
		return models.Gender(fl.Field().String()).IsValid()
	})

	v.RegisterStructValidationMapRules(draftRules, models.Draft{})
	v.RegisterStructValidationMapRules(examRules, models.ExamValidationRequest{})

	return &Validator{
		validate:    v,
		draftFields: jsonFieldNames(reflect.TypeOf(models.Draft{})),
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ValidateDraft checks every rule on d. It returns nil or FieldErrors.
func (v *Validator) ValidateDraft(d models.Draft) error {
	return translate(v.validate.Struct(d))
}

// ValidateDraftFields checks only the named JSON fields of d, so a form can
// be checked section by section. Unknown names are ignored.
func (v *Validator) ValidateDraftFields(d models.Draft, jsonFields ...string) error {
	goFields := make([]string, 0, len(jsonFields))
	for _, f := range jsonFields {
		if name, ok := v.draftFields[f]; ok {
			goFields = append(goFields, name)
		}
	}
	if len(goFields) == 0 {
		return nil
	}
	return translate(v.validate.StructPartial(d, goFields...))
}

// ValidateExamRequest checks the three exam lookup keys.
func (v *Validator) ValidateExamRequest(r models.ExamValidationRequest) error {
	return translate(v.validate.Struct(r))
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = messageFor(field, fe.Tag())
	}
	return out
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return field + " is invalid"
}

func jsonFieldNames(t reflect.Type) map[string]string {
	out := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		out[name] = f.Name
	}
	return out
}
