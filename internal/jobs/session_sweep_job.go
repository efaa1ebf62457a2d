package jobs

import "go.uber.org/zap"

// SessionSweepJobName is the name of the wizard session cleanup job
const SessionSweepJobName = "wizard_session_sweep"

// SessionSweeper drops idle wizard sessions
type SessionSweeper interface {
	Sweep() int
	Len() int
}

// SessionSweepJob expires abandoned quote wizard sessions
type SessionSweepJob struct {
	sessions SessionSweeper
	logger   *zap.Logger
}

func NewSessionSweepJob(sessions SessionSweeper, logger *zap.Logger) *SessionSweepJob {
	return &SessionSweepJob{sessions: sessions, logger: logger}
}

// Run is called by the scheduler
func (j *SessionSweepJob) Run() {
	removed := j.sessions.Sweep()
	if removed == 0 {
		return
	}
	j.logger.Info("expired wizard sessions",
		zap.Int("removed", removed),
		zap.Int("remaining", j.sessions.Len()))
}
