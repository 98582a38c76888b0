package domain

import (
	"regexp"
	"strings"
	"time"
)

var (
	clientNumberPattern = regexp.MustCompile(`^\d{7}$`)
	matterNumberPattern = regexp.MustCompile(`^\d{6}$`)
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonAlnum            = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidClientNumber reports whether s is exactly seven digits.
func ValidClientNumber(s string) bool { return clientNumberPattern.MatchString(s) }

// ValidMatterNumber reports whether s is exactly six digits.
func ValidMatterNumber(s string) bool { return matterNumberPattern.MatchString(s) }

// ValidEmail applies a loose local@domain.tld check.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// StaffSlot names one of the client's staff columns.
type StaffSlot string

const (
	SlotAttorney       StaffSlot = "attorney_id"
	SlotParalegal      StaffSlot = "paralegal_id"
	SlotProjectManager StaffSlot = "project_manager_id"
)

// SlotFor returns the client staff slot a person of type t fills. Vendors fill
// none.
func SlotFor(t PersonType) (StaffSlot, bool) {
	switch t {
	case PersonTypeAttorney:
		return SlotAttorney, true
	case PersonTypeParalegal:
		return SlotParalegal, true
	case PersonTypeProjectManager:
		return SlotProjectManager, true
	}
	return "", false
}

// Slot returns a pointer to the client's field for slot.
func (c *Client) Slot(slot StaffSlot) **int64 {
	switch slot {
	case SlotAttorney:
		return &c.AttorneyID
	case SlotParalegal:
		return &c.ParalegalID
	case SlotProjectManager:
		return &c.ProjectManagerID
	}
	return nil
}

// DeriveUsername builds a login name from an email or display name.
func DeriveUsername(email, name string) string {
	if local, _, ok := strings.Cut(strings.TrimSpace(email), "@"); ok && local != "" {
		return strings.ToLower(local)
	}
	slug := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), ".")
	return strings.Trim(slug, ".")
}

// CalendarDate drops the time of day, keeping the caller's calendar date at
// local midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ParseCalendarDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseCalendarDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}
