package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/shoenig/test/must"
)

func TestClusterLocker_SerializesSameCluster(t *testing.T) {
	l := NewClusterLocker()
	var mu sync.Mutex
	order := make([]int, 0, 2)

	started := make(chan struct{})
	unlock := l.Lock("c1")
	go func() {
		close(started)
		u := l.Lock("c1")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		u()
	}()

	<-started
	time.Sleep(10 * time.Millisecond) // give the goroutine a chance to block on Lock
	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	must.Eq(t, []int{1, 2}, order)
}

func TestClusterLocker_DifferentClustersDoNotBlock(t *testing.T) {
	l := NewClusterLocker()
	unlockA := l.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("b")
		defer unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on cluster b blocked behind cluster a's held lock")
	}
}
