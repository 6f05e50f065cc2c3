package exam

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiner/internal/session"
)

// timerTickMsg is sent at the tick cadence to poll the countdown.
type timerTickMsg time.Time

// publishedMsg reports that the finished record went through the sink.
type publishedMsg struct {
	Record *session.Record
	Err    error
}

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
