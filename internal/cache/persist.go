package cache

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler는 캐시 저장처럼 결과를 기다리지 않는 작업을 실행한다.
type Scheduler interface {
	Schedule(fn func())
}

// Background는 작업마다 goroutine을 띄운다. 호출자는 기다리지 않는다.
type Background struct {
	wg sync.WaitGroup
}

// Schedule은 fn을 별도 goroutine에서 실행한다.
func (b *Background) Schedule(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait는 예약된 작업이 끝나거나 timeout이 지날 때까지 기다린다.
// 모두 끝났으면 true를 반환한다.
func (b *Background) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Inline은 fn을 즉시 실행한다. 테스트용.
type Inline struct{}

// Schedule은 fn을 호출자 goroutine에서 실행한다.
func (Inline) Schedule(fn func()) { fn() }

// Persist는 c를 path에 쓰는 작업을 s에 맡긴다.
// 직렬화는 호출 시점에 끝내므로 이후 c가 바뀌어도 저장 내용은 그대로다.
// 실패는 debug 로그만 남긴다.
func Persist(c *Cache, path string, s Scheduler, log *zap.Logger) {
	data, err := json.Marshal(c)
	if err != nil {
		log.Debug("캐시 직렬화 실패", zap.Error(err))
		return
	}
	entries := len(c.Values)
	s.Schedule(func() {
		if err := writeFile(path, data); err != nil {
			log.Debug("캐시 저장 실패", zap.String("path", path), zap.Error(err))
			return
		}
		log.Debug("캐시 저장", zap.String("path", path), zap.Int("entries", entries))
	})
}
