package events

import (
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

type subscriber struct {
	ch     chan Event
	topics map[string]struct{}
}

func (s *subscriber) wants(topics []string) bool {
	if _, ok := s.topics[TopicAll]; ok {
		return true
	}
	for _, t := range topics {
		if _, ok := s.topics[t]; ok {
			return true
		}
	}
	return false
}

// Hub рассылает события подписчикам внутри процесса
// Publish никогда не блокируется: если буфер подписчика полон, событие для него отбрасывается
type Hub struct {
	mu         sync.RWMutex
	subs       map[*subscriber]struct{}
	bufferSize int
	closed     bool

	drops   DropCounter
	logger  Logger
	dropped atomic.Uint64
}

// NewHub создает хаб событий
// drops может быть nil
func NewHub(bufferSize int, drops DropCounter, logger Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subs:       make(map[*subscriber]struct{}),
		bufferSize: bufferSize,
		drops:      drops,
		logger:     logger,
	}
}

// Subscribe подписывается на топики; без топиков подписка получает все события
// Возвращает канал событий и функцию отписки, закрывающую канал
func (h *Hub) Subscribe(topics ...string) (<-chan Event, func()) {
	sub := &subscriber{
		ch:     make(chan Event, h.bufferSize),
		topics: make(map[string]struct{}, len(topics)),
	}
	if len(topics) == 0 {
		sub.topics[TopicAll] = struct{}{}
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[sub]; ok {
				delete(h.subs, sub)
				close(sub.ch)
			}
		})
	}

	return sub.ch, cancel
}

// Publish доставляет событие всем подходящим подписчикам
func (h *Hub) Publish(event Event) {
	topics := event.Topics()

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for sub := range h.subs {
		if !sub.wants(topics) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.dropped.Add(1)
			if h.drops != nil {
				h.drops.IncEventsDropped()
			}
			h.logger.Warn("events: subscriber buffer full, dropped event %s (%s)", event.ID, event.Type)
		}
	}
}

// Dropped число отброшенных событий с момента старта
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// SubscriberCount число активных подписок
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close закрывает все подписки; последующие Publish игнорируются
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}
