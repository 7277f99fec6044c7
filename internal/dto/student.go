package dto

import "time"

// RegisterStudentRequest carries the registration form fields. The passport
// photo travels separately as a multipart file part.
type RegisterStudentRequest struct {
	FirstName       string `form:"firstName" validate:"required"`
	MiddleName      string `form:"middleName"`
	LastName        string `form:"lastName" validate:"required"`
	Gender          string `form:"gender" validate:"required"`
	DateOfBirth     string `form:"dateOfBirth"`
	Nationality     string `form:"nationality"`
	StateOfOrigin   string `form:"stateOfOrigin"`
	LGA             string `form:"lga"`
	Address         string `form:"address"`
	Religion        string `form:"religion"`
	Phone           string `form:"phone"`
	ClassLevel      string `form:"classLevel" validate:"required"`
	Section         string `form:"section"`
	Session         string `form:"session"`
	Term            string `form:"term"`
	PreviousSchool  string `form:"previousSchool"`
	DateOfAdmission string `form:"dateOfAdmission"`
}

// UpdateStudentRequest uses pointer fields so that absent form keys leave the
// stored value untouched. Admission numbers are immutable; a supplied
// admissionNumber that differs from the stored one is rejected.
type UpdateStudentRequest struct {
	AdmissionNumber *string `form:"admissionNumber"`
	FirstName       *string `form:"firstName"`
	MiddleName      *string `form:"middleName"`
	LastName        *string `form:"lastName"`
	Gender          *string `form:"gender"`
	DateOfBirth     *string `form:"dateOfBirth"`
	Nationality     *string `form:"nationality"`
	StateOfOrigin   *string `form:"stateOfOrigin"`
	LGA             *string `form:"lga"`
	Address         *string `form:"address"`
	Religion        *string `form:"religion"`
	Phone           *string `form:"phone"`
	ClassLevel      *string `form:"classLevel"`
	Section         *string `form:"section"`
	Session         *string `form:"session"`
	Term            *string `form:"term"`
	PreviousSchool  *string `form:"previousSchool"`
	DateOfAdmission *string `form:"dateOfAdmission"`
}

// ClassCount pairs a class level with its active headcount.
type ClassCount struct {
	ClassLevel string `json:"classLevel" db:"class_level"`
	Count      int    `json:"count" db:"count"`
}

// DashboardSummary aggregates headline numbers for the admin dashboard.
type DashboardSummary struct {
	ActiveCount        int          `json:"activeCount"`
	RecycledCount      int          `json:"recycledCount"`
	AdmissionsThisYear int          `json:"admissionsThisYear"`
	ClassCounts        []ClassCount `json:"classCounts"`
	GeneratedAt        time.Time    `json:"generatedAt"`
}
