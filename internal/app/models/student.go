package models

import (
	"encoding/json"
	"time"
)

// StudentRecord defines the freshman model based on the 'students' table
type StudentRecord struct {
	ID            int64           `db:"id"`
	UID           *int32          `db:"uid"` // nil while unbound
	StudentID     string          `db:"student_id"`
	Ticket        string          `db:"ticket"`
	Name          string          `db:"name"`
	Secret        string          `db:"secret"`
	College       string          `db:"college"`
	Major         string          `db:"major"`
	Campus        string          `db:"campus"`
	Building      string          `db:"building"`
	Room          int32           `db:"room"`
	Bed           string          `db:"bed"`
	CounselorName string          `db:"counselor_name"`
	CounselorTel  string          `db:"counselor_tel"`
	Province      *string         `db:"province"`
	City          string          `db:"city"`
	Postcode      int32           `db:"postcode"`
	GraduatedFrom string          `db:"graduated_from"`
	Class         string          `db:"class"`
	Visible       bool            `db:"visible"`
	Contact       json.RawMessage `db:"contact"`
	LastSeen      *time.Time      `db:"last_seen"`
}

// IsBound reports whether any identity holds the record
func (s *StudentRecord) IsBound() bool {
	return s.UID != nil
}

// IsBoundTo reports whether uid holds the record
func (s *StudentRecord) IsBoundTo(uid int32) bool {
	return s.UID != nil && *s.UID == uid
}

// Kind returns how token matches the record, or 0 when it does not.
func (s *StudentRecord) Kind(token string) AccountKind {
	switch token {
	case "":
		return 0
	case s.StudentID:
		return AccountByStudentID
	case s.Ticket:
		return AccountByTicket
	case s.Name:
		return AccountByName
	default:
		return 0
	}
}

// FreshmanBasic is what a bound student sees about their own record
type FreshmanBasic struct {
	StudentID     string `json:"studentId"`
	College       string `json:"college"`
	Major         string `json:"major"`
	Campus        string `json:"campus"`
	Building      string `json:"building"`
	Room          int32  `json:"room"`
	Bed           string `json:"bed"`
	CounselorName string `json:"counselorName"`
	CounselorTel  string `json:"counselorTel"`
	Visible       bool   `json:"visible"`
}

// Basic projects the record onto its self-view
func (s *StudentRecord) Basic() FreshmanBasic {
	return FreshmanBasic{
		StudentID:     s.StudentID,
		College:       s.College,
		Major:         s.Major,
		Campus:        s.Campus,
		Building:      s.Building,
		Room:          s.Room,
		Bed:           s.Bed,
		CounselorName: s.CounselorName,
		CounselorTel:  s.CounselorTel,
		Visible:       s.Visible,
	}
}

// Mate is a classmate or roommate as seen by another student
type Mate struct {
	College  string          `json:"college"`
	Major    string          `json:"major"`
	Name     string          `json:"name"`
	Province *string         `json:"province"`
	Building string          `json:"building"`
	Room     int32           `json:"room"`
	Bed      string          `json:"bed"`
	LastSeen *time.Time      `json:"lastSeen"`
	Contact  json.RawMessage `json:"contact"`
}

// Mate projects the record onto the classmate view. Contact is only shared
// by students who made themselves visible.
func (s *StudentRecord) Mate() Mate {
	m := Mate{
		College:  s.College,
		Major:    s.Major,
		Name:     s.Name,
		Province: s.Province,
		Building: s.Building,
		Room:     s.Room,
		Bed:      s.Bed,
		LastSeen: s.LastSeen,
	}
	if s.Visible && len(s.Contact) > 0 {
		m.Contact = s.Contact
	}
	return m
}

// Familiar is a visible student the caller might know
type Familiar struct {
	Name    string          `json:"name"`
	College string          `json:"college"`
	City    string          `json:"city"`
	Contact json.RawMessage `json:"contact"`
}

// Familiar projects the record onto the people-familiar view
func (s *StudentRecord) Familiar() Familiar {
	f := Familiar{
		Name:    s.Name,
		College: s.College,
		City:    s.City,
	}
	if s.Visible && len(s.Contact) > 0 {
		f.Contact = s.Contact
	}
	return f
}

// ProfileUpdate carries the optional fields of a profile mutation
type ProfileUpdate struct {
	Contact  json.RawMessage
	Visible  *bool
	LastSeen *time.Time
}

// IsEmpty reports whether the update would change nothing
func (u ProfileUpdate) IsEmpty() bool {
	return u.Contact == nil && u.Visible == nil && u.LastSeen == nil
}
