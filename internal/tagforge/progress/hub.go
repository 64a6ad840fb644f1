// Package progress 在进程内向订阅者广播提交进度
package progress

import (
	"sync"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
)

// Hub 按工作区和提交 ID 分发进度
// 订阅者读得慢时只保留最新的状态
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan entity.Submission]struct{}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan entity.Submission]struct{}),
	}
}

func key(workspace, id string) string {
	return workspace + "/" + id
}

// Subscribe 订阅提交的进度变化，结束时必须调用返回的 cancel
func (h *Hub) Subscribe(workspace, id string) (<-chan entity.Submission, func()) {
	ch := make(chan entity.Submission, 1)
	k := key(workspace, id)

	h.mu.Lock()
	set, ok := h.subs[k]
	if !ok {
		set = make(map[chan entity.Submission]struct{})
		h.subs[k] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[k], ch)
			if len(h.subs[k]) == 0 {
				delete(h.subs, k)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish 向订阅者发送最新状态，不会阻塞
func (h *Hub) Publish(sub entity.Submission) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[key(sub.Workspace, sub.ID)] {
		select {
		case ch <- sub:
			continue
		default:
		}
		// 丢弃未读的旧状态
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- sub:
		default:
		}
	}
}

// Subscribers 返回提交当前的订阅者数量
func (h *Hub) Subscribers(workspace, id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key(workspace, id)])
}
