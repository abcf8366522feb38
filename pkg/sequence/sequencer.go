// Package sequence 提供最小化的片段编排器（sequencer）
//
// 片段（fragment）按注册顺序排队，同一序列同一时刻只有一个片段处于"就绪"状态：
// 编排器发出 FragmentEvent，消费者在片段彻底结束后回送 FragmentEndEvent（完成令牌），
// 编排器收到令牌后才推进到下一个片段。
//
// 事件通过 ecs.Events 双缓冲队列传递，因此每一跳至少跨越一个 tick。
package sequence

import (
	"slices"

	"github.com/gonewx/textbox/pkg/ecs"
	"go.uber.org/zap"
)

// FragmentID 片段的稳定标识符（0 为无效 ID）
type FragmentID uint64

// FragmentEvent 片段就绪通知
type FragmentEvent[T any] struct {
	ID   FragmentID
	Data T
}

// End 返回该片段的完成令牌
func (e FragmentEvent[T]) End() FragmentEndEvent {
	return FragmentEndEvent{ID: e.ID}
}

// FragmentEndEvent 完成令牌：通知编排器该片段已彻底结束
type FragmentEndEvent struct {
	ID FragmentID
}

// Repeat 序列结束后的重复策略
//
// 作用于整个序列而不是单个片段：它只决定最后一个片段完成后是结束还是从头开始，
// 不表示某个片段的播放次数。
type Repeat int

const (
	// RepeatOnce 播放一遍后结束（默认）
	RepeatOnce Repeat = iota
	// RepeatAlways 结束后从头开始
	RepeatAlways
)

// Sequencer 管理若干个序列，负责派发就绪事件并消费完成令牌
type Sequencer[T any] struct {
	ready  *ecs.Events[FragmentEvent[T]]
	ends   *ecs.Events[FragmentEndEvent]
	logger *zap.Logger

	nextID    FragmentID
	sequences []*Sequence[T]
	owners    map[FragmentID]*Sequence[T]
}

// NewSequencer 创建编排器
//   - ready: 片段就绪事件队列（由编排器写入）
//   - ends: 完成令牌队列（由编排器读取）
func NewSequencer[T any](ready *ecs.Events[FragmentEvent[T]], ends *ecs.Events[FragmentEndEvent], logger *zap.Logger) *Sequencer[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer[T]{
		ready:  ready,
		ends:   ends,
		logger: logger,
		nextID: 1,
		owners: make(map[FragmentID]*Sequence[T]),
	}
}

// NewSequence 创建一个新的空序列（尚未启动）
func (s *Sequencer[T]) NewSequence() *Sequence[T] {
	seq := &Sequence[T]{owner: s, current: -1}
	s.sequences = append(s.sequences, seq)
	return seq
}

// Update 每个 tick 调用一次：先消费完成令牌，再为空闲序列派发下一个片段
// 已结束的序列及其片段归属在本次 Update 末尾被移除
func (s *Sequencer[T]) Update() {
	for _, end := range s.ends.Drain() {
		seq, ok := s.owners[end.ID]
		if !ok {
			s.logger.Debug("[Sequencer] Ignoring completion token for unknown fragment", zap.Uint64("fragment", uint64(end.ID)))
			continue
		}
		seq.complete(end.ID)
	}

	for _, seq := range s.sequences {
		seq.dispatch()
	}

	s.sequences = slices.DeleteFunc(s.sequences, func(seq *Sequence[T]) bool {
		return seq.finished
	})
}

// Active 返回仍在运行（已启动且未结束）的序列数
func (s *Sequencer[T]) Active() int {
	n := 0
	for _, seq := range s.sequences {
		if seq.started && !seq.finished {
			n++
		}
	}
	return n
}

type entry[T any] struct {
	id   FragmentID
	data T
}

// Sequence 一条线性片段序列
type Sequence[T any] struct {
	owner     *Sequencer[T]
	fragments []entry[T]
	repeat    Repeat
	onEnd     []func()

	started  bool
	finished bool
	waiting  bool // 已派发，等待完成令牌
	current  int
}

// Push 追加片段，返回其稳定 ID
func (q *Sequence[T]) Push(data T) FragmentID {
	id := q.owner.nextID
	q.owner.nextID++
	q.fragments = append(q.fragments, entry[T]{id: id, data: data})
	q.owner.owners[id] = q
	return id
}

// Once 整个序列播放一遍后结束（默认）
//
// Once 与 Always 是同一个序列级开关，多次调用时以最后一次为准，
// 例如 Always().Once() 等价于 Once()。
func (q *Sequence[T]) Once() *Sequence[T] {
	q.repeat = RepeatOnce
	return q
}

// Always 整个序列播放结束后从头重播，永不结束，OnEnd 回调不会触发
// 与 Once 互相覆盖，以最后一次调用为准
func (q *Sequence[T]) Always() *Sequence[T] {
	q.repeat = RepeatAlways
	return q
}

// OnEnd 注册序列结束回调（仅 RepeatOnce 会触发）
func (q *Sequence[T]) OnEnd(fn func()) *Sequence[T] {
	q.onEnd = append(q.onEnd, fn)
	return q
}

// Start 启动序列；第一个片段在下一次 Sequencer.Update 时派发
func (q *Sequence[T]) Start() {
	q.started = true
}

// Finished 序列是否已结束
func (q *Sequence[T]) Finished() bool {
	return q.finished
}

// Len 序列中的片段数
func (q *Sequence[T]) Len() int {
	return len(q.fragments)
}

func (q *Sequence[T]) dispatch() {
	if !q.started || q.finished || q.waiting {
		return
	}

	next := q.current + 1
	if next >= len(q.fragments) {
		if q.repeat == RepeatAlways && len(q.fragments) > 0 {
			next = 0
		} else {
			q.finish()
			return
		}
	}

	q.current = next
	q.waiting = true
	frag := q.fragments[next]
	q.owner.ready.Send(FragmentEvent[T]{ID: frag.id, Data: frag.data})
	q.owner.logger.Debug("[Sequencer] Fragment ready", zap.Uint64("fragment", uint64(frag.id)), zap.Int("index", next))
}

func (q *Sequence[T]) complete(id FragmentID) {
	if !q.waiting || q.current < 0 || q.fragments[q.current].id != id {
		q.owner.logger.Warn("[Sequencer] Out-of-order completion token", zap.Uint64("fragment", uint64(id)))
		return
	}
	q.waiting = false
}

func (q *Sequence[T]) finish() {
	q.finished = true
	for _, frag := range q.fragments {
		delete(q.owner.owners, frag.id)
	}
	q.owner.logger.Debug("[Sequencer] Sequence finished", zap.Int("fragments", len(q.fragments)))
	for _, fn := range q.onEnd {
		fn()
	}
}
