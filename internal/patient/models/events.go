package models

import "time"

// PatientCreated is the payload announced on the event stream when a patient
// record is committed. Only creation is announced; updates and deletions are
// deliberately silent.
type PatientCreated struct {
	EventID   string    `json:"eventId"`
	PatientID string    `json:"patientId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}
