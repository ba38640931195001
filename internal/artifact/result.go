package artifact

// Status is the terminal outcome of validating one unit's artifact.
type Status string

const (
	StatusValid     Status = "valid"
	StatusMissing   Status = "missing"
	StatusMalformed Status = "malformed"

	// StatusSecurityRejected marks a unit whose feature name failed
	// resolution. Batch validation aborts with an error before producing
	// any results, so only single-unit surfaces report this status.
	StatusSecurityRejected Status = "security-rejected"
)

// Result is the outcome for one unit. Created once by the validator or
// runner and immutable afterwards; Detail is built from a fixed
// vocabulary and never carries raw OS error text or absolute paths.
type Result struct {
	UnitID   int    `json:"unit_id"`
	Status   Status `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Attempts int    `json:"attempts"`
}
