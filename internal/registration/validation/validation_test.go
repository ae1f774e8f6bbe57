package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capreg/internal/registration/models"
)

func validDraft() models.Draft {
	return models.Draft{
		ExamType:        models.ExamTypeNEET,
		ExamRollNumber:  "NEET2024001",
		DateOfBirth:     "2006-04-12",
		CandidateName:   "Asha Patil",
		FatherName:      "Ravi Patil",
		MotherName:      "Sunita Patil",
		Gender:          models.GenderFemale,
		GenderConfirm:   models.GenderFemale,
		DOB:             "2006-04-12",
		DOBConfirm:      "2006-04-12",
		AddressLine1:    "12 MG Road",
		PinCode:         "411001",
		MobileNo:        "9876543210",
		Email:           "asha@example.com",
		Password:        "Secret@123",
		ConfirmPassword: "Secret@123",
		AgreeToTerms:    true,
	}
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	require.Error(t, err)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	return fe
}

func TestValidateDraft(t *testing.T) {
	v := New()

	t.Run("valid draft passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateDraft(validDraft()))
	})

	t.Run("empty draft reports every required field", func(t *testing.T) {
		fe := fieldErrors(t, v.ValidateDraft(models.Draft{}))

		assert.Equal(t, "Exam type is required", fe["examType"])
		assert.Equal(t, "Roll number is required", fe["examRollNumber"])
		assert.Equal(t, "Candidate name is required", fe["candidateName"])
		assert.Equal(t, "Please confirm gender", fe["genderConfirm"])
		assert.Equal(t, "Mobile number is required", fe["mobileNo"])
		assert.Equal(t, "Address is required", fe["addressLine1"])
		assert.Equal(t, "Password is required", fe["password"])
		assert.Equal(t, "You must agree to terms and conditions", fe["agreeToTerms"])
		assert.NotContains(t, fe, "addressLine2", "optional fields are never reported")
	})

	tests := []struct {
		name    string
		mutate  func(d *models.Draft)
		field   string
		message string
	}{
		{"unknown exam type", func(d *models.Draft) { d.ExamType = "JEE" }, "examType", "Exam type must be NEET or MHT-CET"},
		{"gender mismatch", func(d *models.Draft) { d.GenderConfirm = models.GenderMale }, "genderConfirm", "Gender must match"},
		{"dob mismatch", func(d *models.Draft) { d.DOBConfirm = "2006-04-13" }, "dobConfirm", "Date of birth must match"},
		{"mobile too short", func(d *models.Draft) { d.MobileNo = "98765" }, "mobileNo", "Mobile number must be 10 digits"},
		{"mobile with letters", func(d *models.Draft) { d.MobileNo = "98765abcde" }, "mobileNo", "Mobile number must be 10 digits"},
		{"bad email", func(d *models.Draft) { d.Email = "asha.example.com" }, "email", "Invalid email format"},
		{"pin code length", func(d *models.Draft) { d.PinCode = "4110" }, "pinCode", "PIN code must be 6 digits"},
		{"password too short", func(d *models.Draft) { d.Password, d.ConfirmPassword = "Se@1", "Se@1" }, "password", "Password must be at least 8 characters"},
		{"password too long", func(d *models.Draft) { d.Password, d.ConfirmPassword = "Secret@1234567", "Secret@1234567" }, "password", "Password must not exceed 13 characters"},
		{"password without symbol", func(d *models.Draft) { d.Password, d.ConfirmPassword = "Secret1234", "Secret1234" }, "password", "Password must contain uppercase, lowercase, number and special character"},
		{"password symbol outside the set", func(d *models.Draft) { d.Password, d.ConfirmPassword = "Secret#123", "Secret#123" }, "password", "Password must contain uppercase, lowercase, number and special character"},
		{"password without upper case", func(d *models.Draft) { d.Password, d.ConfirmPassword = "secret@123", "secret@123" }, "password", "Password must contain uppercase, lowercase, number and special character"},
		{"confirmation mismatch", func(d *models.Draft) { d.ConfirmPassword = "Secret@124" }, "confirmPassword", "Passwords must match"},
		{"terms not accepted", func(d *models.Draft) { d.AgreeToTerms = false }, "agreeToTerms", "You must agree to terms and conditions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			fe := fieldErrors(t, v.ValidateDraft(d))
			assert.Len(t, fe, 1, "only %s should fail, got %v", tt.field, fe)
			assert.Equal(t, tt.message, fe[tt.field])
		})
	}

	t.Run("password boundaries", func(t *testing.T) {
		for _, p := range []string{"Secret@1", "Secret@123456"} {
			d := validDraft()
			d.Password, d.ConfirmPassword = p, p
			assert.NoError(t, v.ValidateDraft(d), "password %q", p)
		}
	})
}

func TestValidateDraftFields(t *testing.T) {
	v := New()

	t.Run("only the named fields are checked", func(t *testing.T) {
		d := models.Draft{MobileNo: "9876543210", Email: "bad"}

		fe := fieldErrors(t, v.ValidateDraftFields(d, "mobileNo", "email"))
		assert.Equal(t, FieldErrors{"email": "Invalid email format"}, fe)
	})

	t.Run("confirmation compares against the full draft", func(t *testing.T) {
		d := models.Draft{Gender: models.GenderMale, GenderConfirm: models.GenderFemale}

		fe := fieldErrors(t, v.ValidateDraftFields(d, "genderConfirm"))
		assert.Equal(t, "Gender must match", fe["genderConfirm"])
	})

	t.Run("unknown names are ignored", func(t *testing.T) {
		assert.NoError(t, v.ValidateDraftFields(models.Draft{}, "nope"))
	})
}

func TestValidateExamRequest(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateExamRequest(models.ExamValidationRequest{
		ExamType: models.ExamTypeMHTCET, RollNumber: "MHT2024001", DateOfBirth: "2006-04-12",
	}))

	fe := fieldErrors(t, v.ValidateExamRequest(models.ExamValidationRequest{ExamType: models.ExamTypeNEET}))
	assert.Equal(t, FieldErrors{
		"rollNumber":  "Roll number is required",
		"dateOfBirth": "Date of birth is required",
	}, fe)
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{"pinCode": "PIN code must be 6 digits", "email": "Invalid email format"}
	assert.Equal(t, "validation failed: email: Invalid email format; pinCode: PIN code must be 6 digits", fe.Error())
}
