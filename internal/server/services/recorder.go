package services

// Outcomes reported to a Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
)

// Recorder receives auth events for metrics.
type Recorder interface {
	Login(outcome string)
	Refresh(outcome string)
	Logout()
	TokensCleaned(n int64)
}

type nopRecorder struct{}

func (nopRecorder) Login(string)        {}
func (nopRecorder) Refresh(string)      {}
func (nopRecorder) Logout()             {}
func (nopRecorder) TokensCleaned(int64) {}
