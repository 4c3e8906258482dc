package services

// Recorder receives ledger and scheduling events, typically to feed metrics.
type Recorder interface {
	ScheduleGenerated(fixtures int)
	PointsSettled(operation string)
	LedgerAudited(drifts int)
}

const (
	SettlementAward   = "award"
	SettlementReverse = "reverse"
)

type nopRecorder struct{}

func (nopRecorder) ScheduleGenerated(int) {}
func (nopRecorder) PointsSettled(string)  {}
func (nopRecorder) LedgerAudited(int)     {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
