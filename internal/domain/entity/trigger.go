package entity

import "time"

// TaskState é o estado de um par (centro, tipo) durante uma execução.
type TaskState string

const (
	TaskMissing    TaskState = "missing"
	TaskGenerating TaskState = "generating"
	TaskGenerated  TaskState = "generated"
	TaskFailed     TaskState = "failed"
)

// TriggerRequest parametriza uma execução do gatilho. Campos vazios usam o
// mês anterior e todos os centros.
type TriggerRequest struct {
	Month     string   `json:"month,omitempty"`
	Year      int      `json:"year,omitempty"`
	CenterIDs []string `json:"centerIds,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// TaskResult é o desfecho de um par (centro, tipo).
type TaskResult struct {
	CenterID    string     `json:"centerId"`
	Type        ReportType `json:"type"`
	State       TaskState  `json:"state"`
	Success     bool       `json:"success"`
	ReportID    string     `json:"reportId,omitempty"`
	DocumentURL string     `json:"documentUrl,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// TriggerResult é o retorno agregado de uma execução.
type TriggerResult struct {
	RunID          string       `json:"runId"`
	Success        bool         `json:"success"`
	Month          string       `json:"month"`
	Year           int          `json:"year"`
	GeneratedCount int          `json:"generatedCount"`
	TotalAttempted int          `json:"totalAttempted"`
	SkippedCenters int          `json:"skippedCenters"`
	Results        []TaskResult `json:"results"`
	Error          string       `json:"error,omitempty"`
	ErrorKind      string       `json:"errorKind,omitempty"`
	StartedAt      time.Time    `json:"startedAt"`
	FinishedAt     time.Time    `json:"finishedAt"`
}
