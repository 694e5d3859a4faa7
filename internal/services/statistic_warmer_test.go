package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingWarmer struct {
	calls int
	err   error
}

func (w *countingWarmer) Warm(context.Context) error {
	w.calls++
	return w.err
}

func TestStatisticWarmerSkipsWhileOffline(t *testing.T) {
	target := &countingWarmer{}
	monitor := &switchMonitor{online: false}
	w := NewStatisticWarmer(target, monitor, time.Minute, nil)

	w.run()
	assert.Zero(t, target.calls)

	monitor.online = true
	w.run()
	assert.Equal(t, 1, target.calls)
}

func TestStatisticWarmerSurvivesErrors(t *testing.T) {
	target := &countingWarmer{err: errors.New("timeout")}
	w := NewStatisticWarmer(target, nil, 0, nil)

	w.run()
	w.run()
	assert.Equal(t, 2, target.calls)
	assert.Equal(t, time.Minute, w.interval)
}
