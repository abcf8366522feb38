package sequence

import (
	"testing"

	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type harness struct {
	ready *ecs.Events[FragmentEvent[string]]
	ends  *ecs.Events[FragmentEndEvent]
	seq   *Sequencer[string]
}

func newHarness(t *testing.T) *harness {
	ready := ecs.NewEvents[FragmentEvent[string]]()
	ends := ecs.NewEvents[FragmentEndEvent]()
	return &harness{
		ready: ready,
		ends:  ends,
		seq:   NewSequencer(ready, ends, zaptest.NewLogger(t)),
	}
}

// tick 模拟一个 tick：编排器运行，然后推进所有队列
func (h *harness) tick() []FragmentEvent[string] {
	h.seq.Update()
	h.ready.Update()
	h.ends.Update()
	return h.ready.Drain()
}

func TestSequencer_OneFragmentAtATime(t *testing.T) {
	h := newHarness(t)
	s := h.seq.NewSequence()
	first := s.Push("hello")
	second := s.Push("world")
	s.Start()

	got := h.tick()
	require.Len(t, got, 1)
	assert.Equal(t, first, got[0].ID)
	assert.Equal(t, "hello", got[0].Data)

	// 没有完成令牌时不会派发第二个片段
	assert.Empty(t, h.tick())
	assert.Empty(t, h.tick())

	h.ends.Send(got[0].End())
	h.ends.Update()
	got = h.tick()
	require.Len(t, got, 1)
	assert.Equal(t, second, got[0].ID)
	assert.False(t, s.Finished())
}

func TestSequencer_OnceCallsOnEnd(t *testing.T) {
	h := newHarness(t)
	ended := 0
	s := h.seq.NewSequence().Once().OnEnd(func() { ended++ })
	s.Push("only")
	s.Start()

	got := h.tick()
	require.Len(t, got, 1)
	assert.Equal(t, 1, h.seq.Active())

	h.ends.Send(got[0].End())
	h.ends.Update()
	assert.Empty(t, h.tick())
	assert.True(t, s.Finished())
	assert.Equal(t, 1, ended)
	assert.Equal(t, 0, h.seq.Active())

	// 结束后不会重复回调
	h.tick()
	assert.Equal(t, 1, ended)
}

func TestSequencer_PrunesFinishedSequences(t *testing.T) {
	h := newHarness(t)
	for i := range 50 {
		s := h.seq.NewSequence()
		s.Push("line")
		s.Start()

		got := h.tick()
		require.Len(t, got, 1, "sequence %d", i)
		h.ends.Send(got[0].End())
		h.ends.Update()
		h.tick()
		require.True(t, s.Finished())
	}
	assert.Empty(t, h.seq.sequences)
	assert.Empty(t, h.seq.owners)

	// 迟到的令牌只会被忽略
	h.ends.Send(FragmentEndEvent{ID: 1})
	h.ends.Update()
	assert.Empty(t, h.tick())
}

func TestSequencer_OnEndMayStartNewSequence(t *testing.T) {
	h := newHarness(t)
	var next *Sequence[string]
	first := h.seq.NewSequence().OnEnd(func() {
		next = h.seq.NewSequence()
		next.Push("follow-up")
		next.Start()
	})
	first.Push("opening")
	first.Start()

	got := h.tick()
	require.Len(t, got, 1)
	h.ends.Send(got[0].End())
	h.ends.Update()
	h.tick()
	require.True(t, first.Finished())
	require.NotNil(t, next)
	assert.Len(t, h.seq.sequences, 1, "finished sequence pruned, new one kept")

	got = h.tick()
	require.Len(t, got, 1)
	assert.Equal(t, "follow-up", got[0].Data)
}

func TestSequencer_LastRepeatCallWins(t *testing.T) {
	h := newHarness(t)
	s := h.seq.NewSequence().Always().Once()
	s.Push("a")
	s.Start()

	got := h.tick()
	require.Len(t, got, 1)
	h.ends.Send(got[0].End())
	h.ends.Update()
	h.tick()
	assert.True(t, s.Finished())
}

func TestSequencer_AlwaysRestarts(t *testing.T) {
	h := newHarness(t)
	s := h.seq.NewSequence().Always()
	a := s.Push("a")
	b := s.Push("b")
	s.Start()

	order := []FragmentID{}
	for range 3 {
		got := h.tick()
		require.Len(t, got, 1)
		order = append(order, got[0].ID)
		h.ends.Send(got[0].End())
		h.ends.Update()
	}
	assert.Equal(t, []FragmentID{a, b, a}, order)
	assert.False(t, s.Finished())
}

func TestSequencer_IgnoresUnknownAndStaleTokens(t *testing.T) {
	h := newHarness(t)
	s := h.seq.NewSequence()
	s.Push("a")
	second := s.Push("b")
	s.Start()

	got := h.tick()
	require.Len(t, got, 1)

	// 未知 ID 与尚未派发的片段 ID 都不会推进序列
	h.ends.Send(FragmentEndEvent{ID: 999})
	h.ends.Send(FragmentEndEvent{ID: second})
	h.ends.Update()
	assert.Empty(t, h.tick())
}

func TestSequencer_NotStartedDoesNothing(t *testing.T) {
	h := newHarness(t)
	s := h.seq.NewSequence()
	s.Push("a")

	assert.Empty(t, h.tick())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, h.seq.Active())
}
