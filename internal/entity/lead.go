package entity

import (
	"time"
)

type LeadSource string

const (
	SourceWebsite       LeadSource = "Website"
	SourceReferral      LeadSource = "Referral"
	SourceColdCall      LeadSource = "Cold Call"
	SourceAdvertisement LeadSource = "Advertisement"
	SourceEmail         LeadSource = "Email"
	SourceOther         LeadSource = "Other"
)

var LeadSources = []LeadSource{
	SourceWebsite, SourceReferral, SourceColdCall, SourceAdvertisement, SourceEmail, SourceOther,
}

func (s LeadSource) Valid() bool {
	for _, v := range LeadSources {
		if v == s {
			return true
		}
	}
	return false
}

// LeadStatus values are ordered; the order drives status boards.
type LeadStatus string

const (
	StatusNew          LeadStatus = "New"
	StatusContacted    LeadStatus = "Contacted"
	StatusQualified    LeadStatus = "Qualified"
	StatusProposalSent LeadStatus = "Proposal Sent"
	StatusClosed       LeadStatus = "Closed"
)

var LeadStatuses = []LeadStatus{
	StatusNew, StatusContacted, StatusQualified, StatusProposalSent, StatusClosed,
}

func (s LeadStatus) Valid() bool {
	return s.Order() > 0
}

// Order returns the 1-based display position of s, or 0 if s is unknown.
func (s LeadStatus) Order() int {
	for i, v := range LeadStatuses {
		if v == s {
			return i + 1
		}
	}
	return 0
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// UnknownPriorityRank sorts unrecognized priorities after every known one.
const UnknownPriorityRank = 999

func (p Priority) Valid() bool {
	return p.Rank() != UnknownPriorityRank
}

// Rank maps High, Medium and Low to 1, 2 and 3.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return UnknownPriorityRank
	}
}

// AgentRef points at an Agent. Name and Email are filled only when the
// remote embeds the agent in the lead.
type AgentRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Lead struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Source      LeadSource `json:"source"`
	SalesAgent  *AgentRef  `json:"salesAgent,omitempty"`
	Status      LeadStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	TimeToClose int        `json:"timeToClose"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
}

func (l Lead) GetID() string { return l.ID }

// AgentID returns the referenced agent id, or "" when unassigned.
func (l Lead) AgentID() string {
	if l.SalesAgent == nil {
		return ""
	}
	return l.SalesAgent.ID
}

// HasTimeToClose reports whether the lead carries a usable estimate.
func (l Lead) HasTimeToClose() bool {
	return l.TimeToClose > 0
}

// LeadInput is the create/update payload sent to the CRM API.
type LeadInput struct {
	Name        string     `json:"name"`
	Source      LeadSource `json:"source"`
	SalesAgent  string     `json:"salesAgent"`
	Status      LeadStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	TimeToClose int        `json:"timeToClose"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
}

// StampClosedAt sets ClosedAt when the input moves a lead into Closed and the
// current record (nil on create) has no close date yet.
func (in *LeadInput) StampClosedAt(current *Lead, now time.Time) {
	if in.Status != StatusClosed {
		return
	}
	if current != nil && current.ClosedAt != nil {
		in.ClosedAt = current.ClosedAt
		return
	}
	if in.ClosedAt == nil {
		t := now.UTC()
		in.ClosedAt = &t
	}
}
