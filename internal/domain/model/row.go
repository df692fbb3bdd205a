// Package model contains domain models passed between layers.
package model

import "time"

// Metric labels reported by the vendor, in display order. The first
// label is the default sort column.
const (
	MetricDial         = "Dial"
	MetricConnect      = "Connect"
	MetricPitch        = "Pitch"
	MetricConversation = "Conversation"
	MetricMeeting      = "Meeting"
)

// MetricLabels lists all stage metrics in pipeline order.
var MetricLabels = []string{
	MetricDial, MetricConnect, MetricPitch, MetricConversation, MetricMeeting,
}

// TeamUnknown is the team sentinel when the roster has no match.
const TeamUnknown = "NA"

// MeetingDetailSourceSheet tags externally sourced meeting records.
const MeetingDetailSourceSheet = "sheet"

// VendorUser is one dialer account as reported by the vendor.
type VendorUser struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// MetricRow is one reconciled dashboard row per vendor-known user.
type MetricRow struct {
	UserID   string         `json:"userId"`
	UserName string         `json:"userName"`
	Team     string         `json:"team"`
	Values   map[string]int `json:"values"`

	// MeetingCounts breaks the Meeting total into its two sources.
	MeetingCounts MeetingCounts `json:"meetingCounts"`

	// Meetings holds externally sourced detail records, newest first.
	Meetings []MeetingDetail `json:"meetings"`
}

// MeetingCounts splits a row's Meeting total by origin.
type MeetingCounts struct {
	Vendor   int `json:"vendor"`
	External int `json:"external"`
	Total    int `json:"total"`
}

// MeetingDetail is one reconciled external meeting record.
type MeetingDetail struct {
	Timestamp         time.Time `json:"timestamp"`
	LeadName          string    `json:"leadName"`
	CompanyName       string    `json:"companyName"`
	CurrentStage      string    `json:"currentStage"`
	MeetingBookedDate string    `json:"meetingBookedDate"`
	SourceOfLead      string    `json:"sourceOfLead"`
	Source            string    `json:"source"`
}

// MeetingRecord is one parsed row from the external meeting source,
// before reconciliation.
type MeetingRecord struct {
	Name              string
	Timestamp         time.Time
	LeadName          string
	CompanyName       string
	CurrentStage      string
	MeetingBookedDate string
	SourceOfLead      string
}

// MeetingGroup collects a person's meeting records under one normalized
// name key.
type MeetingGroup struct {
	// Key is the normalized form of DisplayName (see names.Normalize).
	Key string
	// DisplayName is the spelling observed in the source.
	DisplayName string
	Records     []MeetingRecord
}

// Count returns the number of records in the group.
func (g MeetingGroup) Count() int { return len(g.Records) }
