package domain

// LogType is the severity of a terminal log entry
type LogType string

const (
	LogTypeInfo  LogType = "info"
	LogTypeWarn  LogType = "warn"
	LogTypeError LogType = "error"
)

// LogEntry is a message written to the host terminal
type LogEntry struct {
	Value string
	Type  LogType
}

// StatusKey identifies the phase reported by a status event
type StatusKey string

const (
	StatusLoading StatusKey = "loading"
	StatusSucceed StatusKey = "succeed"
	StatusFailed  StatusKey = "failed"
)

// StatusType is the presentation type of a status event
type StatusType string

const (
	StatusTypeInfo    StatusType = "info"
	StatusTypeSuccess StatusType = "success"
	StatusTypeError   StatusType = "error"
)

// Status is a status change event
type Status struct {
	Key   StatusKey
	Type  StatusType
	Title string
}

// DeployState is the state of a single deploy attempt
type DeployState string

const (
	DeployIdle       DeployState = "IDLE"
	DeployValidating DeployState = "VALIDATING"
	DeployDeploying  DeployState = "DEPLOYING"
	DeployConfirming DeployState = "CONFIRMING"
	DeploySucceeded  DeployState = "SUCCEEDED"
	DeployFailed     DeployState = "FAILED"
)

// Terminal reports whether no further transition can happen
func (s DeployState) Terminal() bool {
	return s == DeploySucceeded || s == DeployFailed
}
