package entities

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus is the stage a job application is in.
type ApplicationStatus string

const (
	StatusNotApplied   ApplicationStatus = "Not Applied"
	StatusApplied      ApplicationStatus = "Applied"
	StatusInterviewing ApplicationStatus = "Interviewing"
	StatusRejected     ApplicationStatus = "Rejected"
	StatusOffer        ApplicationStatus = "Offer"
)

// Statuses lists every status in pipeline order.
var Statuses = []ApplicationStatus{
	StatusNotApplied, StatusApplied, StatusInterviewing, StatusRejected, StatusOffer,
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Submitted reports whether the application has been sent (anything past Not Applied).
func (s ApplicationStatus) Submitted() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Application is one row of the job application tracker.
type Application struct {
	ID          string            `json:"id"`
	Status      ApplicationStatus `json:"status"`
	Company     string            `json:"company"`
	JobTitle    string            `json:"job_title"`
	JobType     string            `json:"job_type"`  // Full-time, Internship, Part-time, Contract, Other
	WorkMode    string            `json:"work_mode"` // On-site, Remote, Hybrid
	Salary      string            `json:"salary,omitempty"`
	Location    string            `json:"location"`
	DateApplied time.Time         `json:"date_applied"`
	Link        string            `json:"link,omitempty"`
	Interest    int               `json:"interest"` // 1-5
	CreatedAt   time.Time         `json:"created_at"`
}

// Validate checks the fields a tracker row must have.
func (a *Application) Validate() error {
	if !a.Status.Valid() {
		return fmt.Errorf("unknown status %q", a.Status)
	}
	if strings.TrimSpace(a.Company) == "" && strings.TrimSpace(a.JobTitle) == "" {
		return fmt.Errorf("company or job title is required")
	}
	if a.Interest != 0 && (a.Interest < 1 || a.Interest > 5) {
		return fmt.Errorf("interest must be between 1 and 5, got %d", a.Interest)
	}
	return nil
}

// DailyCount is the number of applications dated on one day, whatever their status.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TrackerSummary is the overview shown on the home page.
type TrackerSummary struct {
	Total        int                       `json:"total"`
	Applied      int                       `json:"applied"`
	Interviewing int                       `json:"interviewing"`
	Offers       int                       `json:"offers"`
	ByStatus     map[ApplicationStatus]int `json:"by_status"`
	ByDate       []DailyCount              `json:"by_date"`
}

// StarStory is a saved interview answer in Situation/Task/Action/Result form.
type StarStory struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Story     string    `json:"story"`
	Role      string    `json:"role,omitempty"`
	Resume    string    `json:"resume,omitempty"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}
