package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shukli/price-ingest/config"
	"github.com/shukli/price-ingest/internal/ingest"
	"github.com/shukli/price-ingest/internal/ingest/dto"
)

type fakeUseCase struct {
	runs int
	err  error
}

func (u *fakeUseCase) RunOnce(context.Context) (*dto.RunReport, error) {
	u.runs++
	if u.err != nil {
		return nil, u.err
	}
	now := time.Now()
	return &dto.RunReport{RunID: "test-run", StartedAt: now, FinishedAt: now}, nil
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		at   string
		want string
	}{
		{"08:00", "0 8 * * *"},
		{"13:00", "0 13 * * *"},
		{"23:45", "45 23 * * *"},
		{" 08:00 ", "0 8 * * *"},
	}
	for _, tt := range tests {
		spec, err := cronSpec(tt.at)
		require.NoError(t, err, tt.at)
		assert.Equal(t, tt.want, spec, tt.at)
	}
}

func TestCronSpecRejectsInvalidTime(t *testing.T) {
	for _, at := range []string{"8am", "25:00", "", "08:00:00"} {
		_, err := cronSpec(at)
		assert.Error(t, err, at)
	}
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	cfg := &config.SchedulerConfig{Timezone: "Middle/Nowhere", RunAt: []string{"08:00"}}
	_, err := New(cfg, &fakeUseCase{}, zap.NewNop())
	require.Error(t, err)
}

func TestNewRejectsInvalidTriggerTime(t *testing.T) {
	cfg := &config.SchedulerConfig{Timezone: "Asia/Jerusalem", RunAt: []string{"08:00", "noonish"}}
	_, err := New(cfg, &fakeUseCase{}, zap.NewNop())
	require.Error(t, err)
}

func TestRunJobSwallowsRunFailure(t *testing.T) {
	cfg := &config.SchedulerConfig{Timezone: "Asia/Jerusalem", RunAt: []string{"08:00", "13:00"}}
	uc := &fakeUseCase{err: errors.New("database unreachable")}

	s, err := New(cfg, uc, zap.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, s.runJob)
	assert.Equal(t, 1, uc.runs)
}

func TestRunJobSkipsWhenRunInProgress(t *testing.T) {
	cfg := &config.SchedulerConfig{Timezone: "Asia/Jerusalem", RunAt: []string{"08:00"}}
	uc := &fakeUseCase{err: ingest.ErrRunInProgress}

	s, err := New(cfg, uc, zap.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, s.runJob)
}

func TestRunJobReportsSuccess(t *testing.T) {
	cfg := &config.SchedulerConfig{Timezone: "Asia/Jerusalem", RunAt: []string{"08:00"}}
	uc := &fakeUseCase{}

	s, err := New(cfg, uc, zap.NewNop())
	require.NoError(t, err)

	s.runJob()
	assert.Equal(t, 1, uc.runs)
}

func TestStopDrainsRunningJobs(t *testing.T) {
	cfg := &config.SchedulerConfig{Timezone: "Asia/Jerusalem", RunAt: []string{"08:00"}}
	s, err := New(cfg, &fakeUseCase{}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
