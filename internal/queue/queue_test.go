package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOSingleProducer(t *testing.T) {
	q := New[int]()
	for i := 0; i < 100; i++ {
		q.Enqueue(i)
	}
	assert.Equal(t, 100, q.Len())

	for i := 0; i < 100; i++ {
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())
}

func TestConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	const producers = 8
	const perProducer = 500

	type item struct {
		producer int
		seq      int
	}

	q := New[item]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(item{producer: p, seq: i})
			}
		}(p)
	}
	wg.Wait()

	next := make([]int, producers)
	for i := 0; i < producers*perProducer; i++ {
		it, err := q.Dequeue()
		require.NoError(t, err)
		// FIFO means each producer's items come out in the order it pushed them
		require.Equal(t, next[it.producer], it.seq)
		next[it.producer]++
	}

	for p := 0; p < producers; p++ {
		assert.Equal(t, perProducer, next[p])
	}
}

func TestDequeueOrderMatchesEnqueueOrder(t *testing.T) {
	q := New[int]()

	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				v := p*1000 + i
				// record and enqueue under one lock so "enqueue order" is well defined
				mu.Lock()
				order = append(order, v)
				q.Enqueue(v)
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	for _, want := range order {
		got, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestConcurrentConsumersNeverShareAnItem(t *testing.T) {
	const total = 5000
	q := New[int]()

	var (
		mu   sync.Mutex
		seen = make(map[int]int, total)
		wg   sync.WaitGroup
	)

	for c := 0; c < 10; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, err := q.Dequeue()
				if err != nil {
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}

	for p := 0; p < 5; p++ {
		go func(p int) {
			for i := 0; i < total/5; i++ {
				q.Enqueue(p*(total/5) + i)
			}
		}(p)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == total
	}, 5*time.Second, time.Millisecond)

	q.Shutdown()
	wg.Wait()

	for v, n := range seen {
		assert.Equal(t, 1, n, "item %d handed out %d times", v, n)
	}
}

func TestShutdownOnEmptyReturnsClosed(t *testing.T) {
	q := New[string]()
	q.Shutdown()

	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue()
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Dequeue blocked after shutdown")
	}
}

func TestShutdownDrainsRemainingItems(t *testing.T) {
	q := New[string]()
	q.Enqueue("a")
	q.Enqueue("b")
	q.Shutdown()

	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestShutdownWakesBlockedConsumers(t *testing.T) {
	q := New[int]()

	const waiters = 6
	errs := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			_, err := q.Dequeue()
			errs <- err
		}()
	}

	// give the consumers a chance to block
	time.Sleep(20 * time.Millisecond)
	q.Shutdown()
	q.Shutdown() // idempotent

	for i := 0; i < waiters; i++ {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, ErrClosed)
		case <-time.After(time.Second):
			t.Fatal("waiter not released by shutdown")
		}
	}
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBlockedConsumerReceivesLaterItem(t *testing.T) {
	q := New[int]()

	got := make(chan int, 1)
	go func() {
		v, err := q.Dequeue()
		if err == nil {
			got <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Enqueue(42)

	select {
	case v := <-got:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("consumer not woken by enqueue")
	}
}

func TestDestroyReturnsRemainingItems(t *testing.T) {
	q := New[int]()
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	_, err := q.Dequeue()
	require.NoError(t, err)

	rest := q.Destroy()
	assert.Equal(t, []int{2, 3}, rest)
	assert.Equal(t, 0, q.Len())

	// queue is reusable as an empty queue afterwards
	q.Enqueue(4)
	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}
