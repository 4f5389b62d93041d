// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingWorker записывает вызовы Run и Stop в общий журнал.
type recordingWorker struct {
	id  int
	log *[]string
}

func (w *recordingWorker) Run(context.Context) {
	*w.log = append(*w.log, "run", string(rune('0'+w.id)))
}

func (w *recordingWorker) Stop() {
	*w.log = append(*w.log, "stop", string(rune('0'+w.id)))
}

func TestWorkers_RunInOrder_StopInReverse(t *testing.T) {
	var log []string
	ws := NewWorkers(
		&recordingWorker{id: 1, log: &log},
		&recordingWorker{id: 2, log: &log},
	)

	ws.Run(context.Background())
	ws.Stop()

	assert.Equal(t, []string{"run", "1", "run", "2", "stop", "2", "stop", "1"}, log)
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers()

	// пустой список не паникует
	assert.NotPanics(t, func() {
		ws.Run(context.Background())
		ws.Stop()
	})
}

func TestWorkers_Nil(t *testing.T) {
	ws := &Workers{}

	assert.NotPanics(t, func() {
		ws.Run(context.Background())
		ws.Stop()
	})
}
