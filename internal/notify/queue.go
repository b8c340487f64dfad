package notify

import (
	"sync"
	"time"
)

// Level - тип транзиентного сообщения
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Message - эфемерное сообщение для пользователя.
// Никогда не персистится; только порядок и срок жизни.
type Message struct {
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Queue - потокобезопасная, чисто in-memory очередь транзиентных
// сообщений, сгруппированных по пользователю. FIFO в пределах
// пользователя; просроченные сообщения отбрасываются при чтении.
type Queue struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	byUser  map[string][]Message

	now func() time.Time // подменяется в тестах
}

func NewQueue(ttl time.Duration, maxSize int) *Queue {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxSize <= 0 {
		maxSize = 50
	}
	return &Queue{
		ttl:     ttl,
		maxSize: maxSize,
		byUser:  make(map[string][]Message),
		now:     time.Now,
	}
}

// Push добавляет сообщение в очередь пользователя.
// При переполнении вытесняется самое старое сообщение.
func (q *Queue) Push(userID string, level Level, text string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	msgs := q.byUser[userID]
	msgs = append(msgs, Message{
		Level:     level,
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
	})
	if len(msgs) > q.maxSize {
		msgs = msgs[len(msgs)-q.maxSize:]
	}
	q.byUser[userID] = msgs
}

// Drain возвращает живые сообщения пользователя в порядке добавления
// и очищает его очередь.
func (q *Queue) Drain(userID string) []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	msgs := q.byUser[userID]
	delete(q.byUser, userID)

	now := q.now()
	var alive []Message
	for _, m := range msgs {
		if m.ExpiresAt.After(now) {
			alive = append(alive, m)
		}
	}
	return alive
}

// Len возвращает количество сообщений в очереди пользователя,
// включая еще не отброшенные просроченные.
func (q *Queue) Len(userID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.byUser[userID])
}
