package ecs

// Events 是按 tick 双缓冲的事件队列
//
// 投递语义:
//   - Send 写入 pending 缓冲区
//   - Drain 读取并清空 ready 缓冲区（单一消费者）
//   - Update 在 tick 边界调用，把 pending 移入 ready
//
// 因此第 N 个 tick 写入的事件在第 N+1 个 tick 才能被 Drain 到，
// 永远不会出现在产生它的那一轮读取中。事件严格按写入顺序投递，不合并、不重排。
type Events[T any] struct {
	pending []T
	ready   []T
}

// NewEvents 创建事件队列
func NewEvents[T any]() *Events[T] {
	return &Events[T]{}
}

// Send 写入一个事件
func (e *Events[T]) Send(event T) {
	e.pending = append(e.pending, event)
}

// Drain 返回当前可读事件并清空可读缓冲区
func (e *Events[T]) Drain() []T {
	if len(e.ready) == 0 {
		return nil
	}
	out := e.ready
	e.ready = nil
	return out
}

// Update 推进到下一个 tick：未被读取的 ready 事件保留在前，随后追加 pending
func (e *Events[T]) Update() {
	if len(e.pending) == 0 {
		return
	}
	e.ready = append(e.ready, e.pending...)
	e.pending = nil
}

// Len 返回队列中尚未被读取的事件数（含 pending）
func (e *Events[T]) Len() int {
	return len(e.pending) + len(e.ready)
}
