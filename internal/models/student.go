package models

import "time"

// Gender values accepted on registration.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Religion values accepted on registration.
const (
	ReligionChristianity = "Christianity"
	ReligionIslam        = "Islam"
	ReligionOther        = "Other"
)

// Term values for the academic calendar.
const (
	TermFirst  = "First Term"
	TermSecond = "Second Term"
	TermThird  = "Third Term"
)

// ClassLevels is the fixed set of grade names students can enrol into.
var ClassLevels = []string{
	"Reception", "KG 1", "KG 2", "Nursery 1", "Nursery 2",
	"Basic 1", "Basic 2", "Basic 3", "Basic 4", "Basic 5",
	"JSS 1", "JSS 2", "JSS 3",
	"SSS 1", "SSS 2", "SSS 3",
}

// IsValidClassLevel reports whether the given level belongs to ClassLevels.
func IsValidClassLevel(level string) bool {
	for _, l := range ClassLevels {
		if l == level {
			return true
		}
	}
	return false
}

// IsValidGender reports whether the value is an accepted gender.
func IsValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale
}

// IsValidReligion reports whether the value is an accepted religion.
func IsValidReligion(religion string) bool {
	return religion == ReligionChristianity || religion == ReligionIslam || religion == ReligionOther
}

// IsValidTerm reports whether the value is an accepted term.
func IsValidTerm(term string) bool {
	return term == TermFirst || term == TermSecond || term == TermThird
}

// Student represents a registered learner. Records are soft deleted into the
// recycle bin before any permanent removal.
type Student struct {
	ID              string  `db:"id" json:"id"`
	AdmissionNumber string  `db:"admission_number" json:"admissionNumber"`
	FirstName       string  `db:"first_name" json:"firstName"`
	MiddleName      string  `db:"middle_name" json:"middleName"`
	LastName        string  `db:"last_name" json:"lastName"`
	Gender          string  `db:"gender" json:"gender"`
	DateOfBirth     string  `db:"date_of_birth" json:"dateOfBirth"`
	Nationality     string  `db:"nationality" json:"nationality"`
	StateOfOrigin   string  `db:"state_of_origin" json:"stateOfOrigin"`
	LGA             string  `db:"lga" json:"lga"`
	HomeAddress     string  `db:"home_address" json:"address"`
	Religion        string  `db:"religion" json:"religion"`
	Phone           string  `db:"phone" json:"phone"`
	ClassLevel      string  `db:"class_level" json:"classLevel"`
	Section         string  `db:"section" json:"section"`
	Session         string  `db:"session" json:"session"`
	Term            string  `db:"term" json:"term"`
	PreviousSchool  string  `db:"previous_school" json:"previousSchool"`
	DateOfAdmission string  `db:"date_of_admission" json:"dateOfAdmission"`
	Passport        *string `db:"passport" json:"passport"`

	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	ClassLevel string
	Search     string
	Deleted    bool
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
