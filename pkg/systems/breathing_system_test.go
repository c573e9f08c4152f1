package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/entities"
)

type breathingFixture struct {
	em       *ecs.EntityManager
	timers   *TimerSystem
	system   *BreathingSystem
	progress *fakeProgress
	entity   ecs.EntityID
	done     []string
}

func newBreathingFixture(t *testing.T, progressKey string, pattern config.BreathingConfig) *breathingFixture {
	t.Helper()
	f := &breathingFixture{
		em:       ecs.NewEntityManager(),
		progress: &fakeProgress{},
	}
	f.timers = NewTimerSystem(f.em, zap.NewNop())
	f.system = NewBreathingSystem(f.em, f.timers, f.progress, pattern, zap.NewNop())

	id, err := entities.NewBreathingEntity(f.em, entities.BreathingOptions{
		ProgressKey: progressKey,
		OnComplete:  func(key string) { f.done = append(f.done, key) },
	})
	require.NoError(t, err)
	f.entity = id
	return f
}

// seconds 以 1 秒为步长推进
func (f *breathingFixture) seconds(n int) {
	for i := 0; i < n; i++ {
		f.system.Update(1.0)
	}
}

func (f *breathingFixture) snapshot(t *testing.T) BreathingSnapshot {
	t.Helper()
	snap, ok := f.system.Snapshot(f.entity)
	require.True(t, ok)
	return snap
}

func TestBreathingSystem_CountsDownEveryPhase(t *testing.T) {
	f := newBreathingFixture(t, "calm", config.DefaultBreathing())

	snap := f.snapshot(t)
	assert.Equal(t, components.BreathingPhaseRest, snap.Phase)
	assert.Equal(t, 0, f.timers.Pending(f.entity), "创建后不自动开始")

	f.system.Start(f.entity)

	// 每次呼吸 4 + 7 + 8 = 19 秒，共 5 次
	checkpoints := []struct {
		at          int
		phase       components.BreathingPhase
		secondsLeft int
		breathsDone int
	}{
		{at: 0, phase: components.BreathingPhaseInhale, secondsLeft: 4},
		{at: 1, phase: components.BreathingPhaseInhale, secondsLeft: 3},
		{at: 4, phase: components.BreathingPhaseHold, secondsLeft: 7},
		{at: 11, phase: components.BreathingPhaseExhale, secondsLeft: 8},
		{at: 18, phase: components.BreathingPhaseExhale, secondsLeft: 1},
		{at: 19, phase: components.BreathingPhaseInhale, secondsLeft: 4, breathsDone: 1},
		{at: 94, phase: components.BreathingPhaseExhale, secondsLeft: 1, breathsDone: 4},
		{at: 95, phase: components.BreathingPhaseFinished, secondsLeft: 0, breathsDone: 5},
	}

	elapsed := 0
	for _, cp := range checkpoints {
		f.seconds(cp.at - elapsed)
		elapsed = cp.at

		snap := f.snapshot(t)
		assert.Equal(t, cp.phase, snap.Phase, "t=%ds", cp.at)
		assert.Equal(t, cp.secondsLeft, snap.SecondsLeft, "t=%ds", cp.at)
		assert.Equal(t, cp.breathsDone, snap.BreathsDone, "t=%ds", cp.at)
		if cp.at < 95 {
			assert.Empty(t, f.progress.calls, "完成前不写进度 t=%ds", cp.at)
		}
	}

	assert.Equal(t, []string{"calm"}, f.progress.calls)
	assert.Equal(t, []string{"calm"}, f.done)
	assert.Equal(t, 0, f.timers.Pending(f.entity))

	f.seconds(60)
	assert.Len(t, f.progress.calls, 1, "完成后不再写进度")
	assert.True(t, f.snapshot(t).Finished())
}

func TestBreathingSystem_FrameRate(t *testing.T) {
	f := newBreathingFixture(t, "", config.DefaultBreathing())
	f.system.Start(f.entity)

	// 95 秒 × 60 帧
	for i := 0; i < 95*60-1; i++ {
		f.system.Update(1.0 / 60.0)
	}
	snap := f.snapshot(t)
	require.Equal(t, components.BreathingPhaseExhale, snap.Phase)
	assert.Equal(t, 1, snap.SecondsLeft)

	f.system.Update(1.0 / 60.0)
	assert.True(t, f.snapshot(t).Finished())
	assert.Equal(t, []string{config.BreathingProgressKey}, f.progress.calls, "空进度键使用默认键")
}

func TestBreathingSystem_CustomPattern(t *testing.T) {
	pattern := config.BreathingConfig{Inhale: 1, Hold: 2, Exhale: 1, Breaths: 2}
	f := newBreathingFixture(t, "short", pattern)
	f.system.Start(f.entity)

	f.seconds(pattern.CycleSeconds()*pattern.Breaths - 1)
	assert.False(t, f.snapshot(t).Finished())

	f.seconds(1)
	assert.True(t, f.snapshot(t).Finished())
	assert.Equal(t, pattern, f.system.Pattern())
}

func TestBreathingSystem_StartWhileRunningIsIgnored(t *testing.T) {
	f := newBreathingFixture(t, "calm", config.DefaultBreathing())
	f.system.Start(f.entity)
	f.seconds(2)

	before := f.snapshot(t)
	f.system.Start(f.entity)
	after := f.snapshot(t)

	assert.Equal(t, before, after)
	assert.Equal(t, 1, f.timers.Pending(f.entity), "不会出现第二个秒表")
}

func TestBreathingSystem_Stop(t *testing.T) {
	f := newBreathingFixture(t, "calm", config.DefaultBreathing())
	f.system.Start(f.entity)
	f.seconds(30)

	f.system.Stop(f.entity)
	snap := f.snapshot(t)
	assert.Equal(t, components.BreathingPhaseRest, snap.Phase)
	assert.Equal(t, 0, snap.BreathsDone)
	assert.Equal(t, 0, f.timers.Pending(f.entity))

	f.seconds(200)
	assert.Equal(t, components.BreathingPhaseRest, f.snapshot(t).Phase)
	assert.Empty(t, f.progress.calls)
	assert.Empty(t, f.done)

	// 停止后可以重新开始，从第一次吸气计时
	f.system.Start(f.entity)
	f.seconds(95)
	assert.True(t, f.snapshot(t).Finished())
	assert.Equal(t, []string{"calm"}, f.progress.calls)
}

func TestBreathingSystem_RestartAfterFinish(t *testing.T) {
	pattern := config.BreathingConfig{Inhale: 1, Hold: 1, Exhale: 1, Breaths: 1}
	f := newBreathingFixture(t, "calm", pattern)

	f.system.Start(f.entity)
	f.seconds(3)
	first := f.snapshot(t)
	require.True(t, first.Finished())

	f.system.Start(f.entity)
	second := f.snapshot(t)
	assert.Equal(t, components.BreathingPhaseInhale, second.Phase)
	assert.Equal(t, 0, second.BreathsDone)
	assert.Greater(t, second.Generation, first.Generation)

	f.seconds(3)
	assert.Equal(t, []string{"calm", "calm"}, f.progress.calls, "每次完成各写一次")
}

func TestBreathingSystem_Unmount(t *testing.T) {
	f := newBreathingFixture(t, "calm", config.DefaultBreathing())
	f.system.Start(f.entity)
	f.seconds(3)

	f.system.Unmount(f.entity)
	_, ok := f.system.Snapshot(f.entity)
	assert.False(t, ok)

	f.seconds(200)
	assert.Empty(t, f.progress.calls)
	assert.Empty(t, f.done)
	assert.Equal(t, 0, f.em.EntityCount())

	// 卸载后的操作静默忽略
	f.system.Start(f.entity)
	f.system.Stop(f.entity)
	f.system.Unmount(f.entity)
}

func TestBreathingLines(t *testing.T) {
	tests := []struct {
		name string
		snap BreathingSnapshot
		want []string
	}{
		{
			name: "未开始",
			snap: BreathingSnapshot{Phase: components.BreathingPhaseRest, Breaths: 5},
			want: []string{"Get ready...", "5 breaths: inhale, hold, exhale."},
		},
		{
			name: "屏息中",
			snap: BreathingSnapshot{Phase: components.BreathingPhaseHold, SecondsLeft: 6, BreathsDone: 2, Breaths: 5},
			want: []string{"Breath 3 of 5", "Hold your breath... (6s)"},
		},
		{
			name: "已完成",
			snap: BreathingSnapshot{Phase: components.BreathingPhaseFinished, BreathsDone: 5, Breaths: 5},
			want: []string{"Well done.", "You completed all 5 breathing cycles."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BreathingLines(tt.snap))
		})
	}
}
