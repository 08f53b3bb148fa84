package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func fireN(hook *recentLogHook, n int) {
	for i := 0; i < n; i++ {
		hook.Fire(&logrus.Entry{
			Time:    time.Now(),
			Level:   logrus.WarnLevel,
			Message: fmt.Sprintf("event %d", i),
			Data:    logrus.Fields{"i": i},
		})
	}
}

func TestRecentLogHook_BeforeWrap(t *testing.T) {
	hook := newRecentLogHook(5)
	fireN(hook, 3)

	events := hook.GetEvents()
	assert.Len(t, events, 3)
	assert.Equal(t, "event 0", events[0].Message)
	assert.Equal(t, "event 2", events[2].Message)
}

func TestRecentLogHook_WrapsOldestFirst(t *testing.T) {
	hook := newRecentLogHook(3)
	fireN(hook, 5)

	events := hook.GetEvents()
	assert.Len(t, events, 3)
	assert.Equal(t, "event 2", events[0].Message)
	assert.Equal(t, "event 4", events[2].Message)

	recent := hook.GetRecentEvents(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "event 3", recent[0].Message)
}

func TestRecentLogHook_Clear(t *testing.T) {
	hook := newRecentLogHook(3)
	fireN(hook, 4)
	hook.Clear()

	assert.Empty(t, hook.GetEvents())
}

func TestRecentLogHook_OnlyWarningsAndAbove(t *testing.T) {
	hook := newRecentLogHook(3)
	assert.NotContains(t, hook.Levels(), logrus.InfoLevel)
	assert.NotContains(t, hook.Levels(), logrus.DebugLevel)
	assert.Contains(t, hook.Levels(), logrus.ErrorLevel)
}
