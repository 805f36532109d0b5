package events

import "time"

const (
	StreamName     = "TOPSIS_EVENTS"
	StreamSubjects = "topsis.run.>"
	StreamMaxAge   = "720h" // 30 days
)

func SubjectRunCompleted(runID string) string { return "topsis.run." + runID + ".completed" }
func SubjectRunFailed(runID string) string    { return "topsis.run." + runID + ".failed" }

type RunCompletedEvent struct {
	RunID        string    `json:"run_id"`
	Source       string    `json:"source"`
	Name         string    `json:"name,omitempty"`
	Alternatives int       `json:"alternatives"`
	Criteria     int       `json:"criteria"`
	BestID       string    `json:"best_id"`
	BestScore    float64   `json:"best_score"`
	Timestamp    time.Time `json:"timestamp"`
}

type RunFailedEvent struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Name      string    `json:"name,omitempty"`
	Error     string    `json:"error"`
	Invalid   bool      `json:"invalid"`
	Timestamp time.Time `json:"timestamp"`
}
