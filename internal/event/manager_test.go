package event_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fractionft/fraction-marketplace/internal/event"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestEmitEventReachesMatchingListener(t *testing.T) {
	received := make(chan interface{}, 1)
	event.AddEventListener(event.SharesPurchasedEvent, func(msg interface{}) {
		received <- msg
	})

	event.EmitEvent(event.SharesPurchasedEvent, "0xdeadbeef")

	select {
	case msg := <-received:
		assert.Equal(t, "0xdeadbeef", msg)
	case <-time.After(time.Second):
		t.Fatal("listener never received the event")
	}
}

func TestEmitEventSkipsOtherTypes(t *testing.T) {
	var calls int64
	event.AddEventListener(event.MarketplaceRefreshedEvent, func(_ interface{}) {
		atomic.AddInt64(&calls, 1)
	})

	event.EmitEvent(event.ListingProgressEvent, "ignored")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestConcurrentRegistrationAndEmission(t *testing.T) {
	var delivered int64

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			event.AddEventListener(event.ListingProgressEvent, func(_ interface{}) {
				atomic.AddInt64(&delivered, 1)
			})
		}()
		go func() {
			defer wg.Done()
			event.EmitEvent(event.ListingProgressEvent, "progress")
		}()
	}
	wg.Wait()

	event.EmitEvent(event.ListingProgressEvent, "final")

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&delivered) >= 10
	}, time.Second, 10*time.Millisecond)
}
