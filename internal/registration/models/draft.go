package models

// ExamType identifies the entrance exam whose board record gates registration.
type ExamType string

const (
	ExamTypeNEET   ExamType = "NEET"
	ExamTypeMHTCET ExamType = "MHT-CET"
)

// IsValid checks if the exam type is one of the supported enum values.
func (e ExamType) IsValid() bool {
	switch e {
	case ExamTypeNEET, ExamTypeMHTCET:
		return true
	}
	return false
}

func (e ExamType) String() string {
	return string(e)
}

// Gender as declared by the candidate. The form asks for it twice.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// IsValid checks if the gender is one of the supported enum values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Draft is the application record as it accumulates across the form.
// Every field may be empty until the step that needs it; JSON names are the
// backend's wire names and the whole struct is the register request body.
type Draft struct {
	// Exam details
	ExamType       ExamType `json:"examType,omitempty"`
	ExamRollNumber string   `json:"examRollNumber,omitempty"`
	DateOfBirth    string   `json:"dateOfBirth,omitempty"`

	// Personal details, unlocked once the exam record is validated
	CandidateName string `json:"candidateName,omitempty"`
	FatherName    string `json:"fatherName,omitempty"`
	MotherName    string `json:"motherName,omitempty"`
	Gender        Gender `json:"gender,omitempty"`
	GenderConfirm Gender `json:"genderConfirm,omitempty"`
	DOB           string `json:"dob,omitempty"`
	DOBConfirm    string `json:"dobConfirm,omitempty"`
	Religion      string `json:"religion,omitempty"`
	Nationality   string `json:"nationality,omitempty"`

	// Communication details. State/District/Taluka/Village are opaque master-data IDs.
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	AddressLine3 string `json:"addressLine3,omitempty"`
	State        string `json:"state,omitempty"`
	District     string `json:"district,omitempty"`
	Taluka       string `json:"taluka,omitempty"`
	Village      string `json:"village,omitempty"`
	PinCode      string `json:"pinCode,omitempty"`
	StdCode      string `json:"stdCode,omitempty"`
	TelephoneNo  string `json:"telephoneNo,omitempty"`
	MobileNo     string `json:"mobileNo,omitempty"`
	Email        string `json:"email,omitempty"`

	// Security
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	Captcha         string `json:"captcha,omitempty"`

	AgreeToTerms bool `json:"agreeToTerms"`
}

// DraftPatch carries a partial update of a Draft. Nil fields are left untouched,
// so applying a patch can never remove a value already present.
type DraftPatch struct {
	ExamType       *ExamType
	ExamRollNumber *string
	DateOfBirth    *string

	CandidateName *string
	FatherName    *string
	MotherName    *string
	Gender        *Gender
	GenderConfirm *Gender
	DOB           *string
	DOBConfirm    *string
	Religion      *string
	Nationality   *string

	AddressLine1 *string
	AddressLine2 *string
	AddressLine3 *string
	State        *string
	District     *string
	Taluka       *string
	Village      *string
	PinCode      *string
	StdCode      *string
	TelephoneNo  *string
	MobileNo     *string
	Email        *string

	Password        *string
	ConfirmPassword *string
	Captcha         *string

	AgreeToTerms *bool
}

// Ptr returns a pointer to v. Handy for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}

// Merge returns a copy of d with every non-nil patch field written over it.
func (d Draft) Merge(p DraftPatch) Draft {
	set(&d.ExamType, p.ExamType)
	set(&d.ExamRollNumber, p.ExamRollNumber)
	set(&d.DateOfBirth, p.DateOfBirth)

	set(&d.CandidateName, p.CandidateName)
	set(&d.FatherName, p.FatherName)
	set(&d.MotherName, p.MotherName)
	set(&d.Gender, p.Gender)
	set(&d.GenderConfirm, p.GenderConfirm)
	set(&d.DOB, p.DOB)
	set(&d.DOBConfirm, p.DOBConfirm)
	set(&d.Religion, p.Religion)
	set(&d.Nationality, p.Nationality)

	set(&d.AddressLine1, p.AddressLine1)
	set(&d.AddressLine2, p.AddressLine2)
	set(&d.AddressLine3, p.AddressLine3)
	set(&d.State, p.State)
	set(&d.District, p.District)
	set(&d.Taluka, p.Taluka)
	set(&d.Village, p.Village)
	set(&d.PinCode, p.PinCode)
	set(&d.StdCode, p.StdCode)
	set(&d.TelephoneNo, p.TelephoneNo)
	set(&d.MobileNo, p.MobileNo)
	set(&d.Email, p.Email)

	set(&d.Password, p.Password)
	set(&d.ConfirmPassword, p.ConfirmPassword)
	set(&d.Captcha, p.Captcha)

	set(&d.AgreeToTerms, p.AgreeToTerms)
	return d
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// AsPatch converts every populated field of d into a patch. Empty strings and a
// false consent flag are treated as "not provided".
func (d Draft) AsPatch() DraftPatch {
	var p DraftPatch
	p.ExamType = nonZero(d.ExamType)
	p.ExamRollNumber = nonZero(d.ExamRollNumber)
	p.DateOfBirth = nonZero(d.DateOfBirth)

	p.CandidateName = nonZero(d.CandidateName)
	p.FatherName = nonZero(d.FatherName)
	p.MotherName = nonZero(d.MotherName)
	p.Gender = nonZero(d.Gender)
	p.GenderConfirm = nonZero(d.GenderConfirm)
	p.DOB = nonZero(d.DOB)
	p.DOBConfirm = nonZero(d.DOBConfirm)
	p.Religion = nonZero(d.Religion)
	p.Nationality = nonZero(d.Nationality)

	p.AddressLine1 = nonZero(d.AddressLine1)
	p.AddressLine2 = nonZero(d.AddressLine2)
	p.AddressLine3 = nonZero(d.AddressLine3)
	p.State = nonZero(d.State)
	p.District = nonZero(d.District)
	p.Taluka = nonZero(d.Taluka)
	p.Village = nonZero(d.Village)
	p.PinCode = nonZero(d.PinCode)
	p.StdCode = nonZero(d.StdCode)
	p.TelephoneNo = nonZero(d.TelephoneNo)
	p.MobileNo = nonZero(d.MobileNo)
	p.Email = nonZero(d.Email)

	p.Password = nonZero(d.Password)
	p.ConfirmPassword = nonZero(d.ConfirmPassword)
	p.Captcha = nonZero(d.Captcha)

	p.AgreeToTerms = nonZero(d.AgreeToTerms)
	return p
}

func nonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
