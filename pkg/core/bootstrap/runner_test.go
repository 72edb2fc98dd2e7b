package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingIndicator records Show/Hide calls into the shared event log
type recordingIndicator struct {
	events *[]string
}

func (i recordingIndicator) Show() { *i.events = append(*i.events, "show") }
func (i recordingIndicator) Hide() { *i.events = append(*i.events, "hide") }

func stage(name string, events *[]string, err error) Stage {
	return Stage{
		Name: name,
		Run: func(ctx context.Context) error {
			*events = append(*events, name)
			return err
		},
	}
}

func TestRunner_RunsStagesInOrder(t *testing.T) {
	var events []string
	r := NewRunner(recordingIndicator{&events}, zap.NewNop())

	report, err := r.Run(context.Background(),
		stage("cycles", &events, nil),
		stage("categories", &events, nil),
		stage("profile", &events, nil),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"show", "cycles", "categories", "profile", "hide"}, events)
	assert.Len(t, report.Outcomes, 3)
	assert.Empty(t, report.Failed())
}

func TestRunner_ProceedContinuesAfterFailure(t *testing.T) {
	var events []string
	r := NewRunner(recordingIndicator{&events}, zap.NewNop())

	report, err := r.Run(context.Background(),
		Proceed(stage("cycles", &events, errors.New("boom"))),
		Proceed(stage("categories", &events, nil)),
		stage("profile", &events, nil),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"show", "cycles", "categories", "profile", "hide"}, events)
	assert.Equal(t, []string{"cycles"}, report.Failed())
}

func TestRunner_FailingStageStopsRun(t *testing.T) {
	var events []string
	r := NewRunner(recordingIndicator{&events}, zap.NewNop())

	report, err := r.Run(context.Background(),
		stage("cycles", &events, errors.New("boom")),
		stage("profile", &events, nil),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage cycles failed")
	assert.Equal(t, []string{"show", "cycles", "hide"}, events)
	assert.Len(t, report.Outcomes, 1)
}

func TestRunner_HidesOnceWhenLastStageFails(t *testing.T) {
	var events []string
	r := NewRunner(recordingIndicator{&events}, zap.NewNop())

	_, err := r.Run(context.Background(),
		Proceed(stage("cycles", &events, nil)),
		Proceed(stage("profile", &events, errors.New("offline"))),
	)

	require.NoError(t, err)
	hides := 0
	for _, e := range events {
		if e == "hide" {
			hides++
		}
	}
	assert.Equal(t, 1, hides)
	assert.Equal(t, "hide", events[len(events)-1])
}

func TestRunner_CancelledContext(t *testing.T) {
	var events []string
	r := NewRunner(nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := r.Run(ctx, stage("cycles", &events, nil))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, events)
	assert.Empty(t, report.Outcomes)
}
