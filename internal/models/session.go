package models

import "time"

// HotspotSession is one usage interval for one student. A nil EndTime
// marks the session as active; at most one session per student may be
// active at a time.
type HotspotSession struct {
	ID         string     `db:"id" json:"id"`
	StudentID  string     `db:"student_id" json:"student_id"`
	StartTime  time.Time  `db:"start_time" json:"start_time"`
	EndTime    *time.Time `db:"end_time" json:"end_time,omitempty"`
	DataUsedMB int        `db:"data_used_mb" json:"data_used_mb"`
}

// Active reports whether the session has not been closed yet.
func (s HotspotSession) Active() bool {
	return s.EndTime == nil
}

// DurationMinutes returns the whole minutes between start and end, or
// zero while the session is still active.
func (s HotspotSession) DurationMinutes() int {
	if s.EndTime == nil {
		return 0
	}
	return int(s.EndTime.Sub(s.StartTime).Minutes())
}

// SessionView is a session decorated with its computed duration for
// profile listings.
type SessionView struct {
	HotspotSession
	Active          bool `json:"active"`
	DurationMinutes int  `json:"duration_minutes"`
}
