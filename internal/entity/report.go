package entity

// ClosedByAgent is one row of the closed-by-agent report.
type ClosedByAgent struct {
	AgentID     string `json:"agentId,omitempty"`
	AgentName   string `json:"agentName"`
	ClosedCount int    `json:"closedCount"`
}

// PipelineReport is the remote pipeline aggregate.
type PipelineReport struct {
	TotalLeadsInPipeline int `json:"totalLeadsInPipeline"`
}

// StatusCount is one bucket of a status distribution.
type StatusCount struct {
	Status LeadStatus `json:"status"`
	Count  int        `json:"count"`
}
