package middleware

import (
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type senderCtx struct {
	tele.Context
	sender *tele.User
}

func (c *senderCtx) Sender() *tele.User { return c.sender }

func TestPerUserSerializesSameUser(t *testing.T) {
	mw := PerUserMiddleware()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	handler := mw(func(tele.Context) error {
		mu.Lock()
		active++
		if active > maxSeen {
			maxSeen = active
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = handler(&senderCtx{sender: &tele.User{ID: 7}})
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("max concurrent handlers for one user = %d, want 1", maxSeen)
	}
}

func TestPerUserAllowsDistinctUsers(t *testing.T) {
	mw := PerUserMiddleware()

	release := make(chan struct{})
	entered := make(chan int64, 2)
	handler := mw(func(c tele.Context) error {
		entered <- c.Sender().ID
		<-release
		return nil
	})

	for _, id := range []int64{1, 2} {
		id := id
		go func() { _ = handler(&senderCtx{sender: &tele.User{ID: id}}) }()
	}

	// both users must enter before either is released
	for i := 0; i < 2; i++ {
		select {
		case <-entered:
		case <-time.After(time.Second):
			t.Fatal("distinct users were serialized")
		}
	}
	close(release)
}

func TestPerUserPassesThroughWithoutSender(t *testing.T) {
	mw := PerUserMiddleware()
	called := false
	handler := mw(func(tele.Context) error {
		called = true
		return nil
	})
	if err := handler(&senderCtx{}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called {
		t.Fatal("handler was not invoked")
	}
}
