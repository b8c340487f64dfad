package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_PushAndDrain(t *testing.T) {
	t.Parallel()

	q := NewQueue(time.Minute, 10)
	q.Push("u1", LevelInfo, "first")
	q.Push("u1", LevelSuccess, "second")
	q.Push("u2", LevelError, "other user")

	msgs := q.Drain("u1")
	assert.Len(t, msgs, 2)
	// FIFO в пределах пользователя
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, LevelInfo, msgs[0].Level)

	// Drain очищает очередь: повторное чтение пусто
	assert.Empty(t, q.Drain("u1"))

	// Очередь другого пользователя не затронута
	assert.Equal(t, 1, q.Len("u2"))
}

func TestQueue_ExpiredMessagesDropped(t *testing.T) {
	t.Parallel()

	q := NewQueue(30*time.Second, 10)
	base := time.Now()
	q.now = func() time.Time { return base }

	q.Push("u1", LevelInfo, "will expire")

	q.now = func() time.Time { return base.Add(31 * time.Second) }
	q.Push("u1", LevelInfo, "still alive")

	msgs := q.Drain("u1")
	assert.Len(t, msgs, 1)
	assert.Equal(t, "still alive", msgs[0].Text)
}

func TestQueue_OverflowEvictsOldest(t *testing.T) {
	t.Parallel()

	q := NewQueue(time.Minute, 3)
	for i := 1; i <= 5; i++ {
		q.Push("u1", LevelInfo, fmt.Sprintf("msg-%d", i))
	}

	msgs := q.Drain("u1")
	assert.Len(t, msgs, 3)
	assert.Equal(t, "msg-3", msgs[0].Text)
	assert.Equal(t, "msg-5", msgs[2].Text)
}

func TestQueue_Defaults(t *testing.T) {
	t.Parallel()

	q := NewQueue(0, 0)
	assert.Equal(t, 30*time.Second, q.ttl)
	assert.Equal(t, 50, q.maxSize)
}

func TestQueue_ConcurrentPush(t *testing.T) {
	t.Parallel()

	q := NewQueue(time.Minute, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.Push("u1", LevelInfo, "concurrent")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, q.Len("u1"))
}
