package types

// StatusReport is the payload of GET /status.
type StatusReport struct {
	Status      string       `json:"status"`
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
	LLMProvider string       `json:"llm_provider"`
	Checks      StatusChecks `json:"checks"`
}

// StatusChecks holds the dependency checks reported by the backend.
type StatusChecks struct {
	Database string `json:"database"`
}
