package reactor

import "testing"

func TestSingleContinuation_PushResumeClosesWaiter(t *testing.T) {
	var c singleContinuation
	w := make(waiter)
	c.push(w)
	c.resumeAll()
	select {
	case <-w:
	default:
		t.Fatal("waiter was not closed by resumeAll")
	}
}

func TestSingleContinuation_EraseRemovesBeforeResume(t *testing.T) {
	var c singleContinuation
	w := make(waiter)
	c.push(w)
	if !c.erase(w) {
		t.Fatal("erase should report it removed the registered waiter")
	}
	c.resumeAll()
	select {
	case <-w:
		t.Fatal("erased waiter must not be closed")
	default:
	}
}

func TestMultiContinuation_ResumeOneWakesExactlyOne(t *testing.T) {
	var c multiContinuation
	w1 := make(waiter)
	w2 := make(waiter)
	c.push(w1)
	c.push(w2)

	if !c.resumeOne() {
		t.Fatal("resumeOne should report success with waiters queued")
	}

	closedCount := 0
	for _, w := range []waiter{w1, w2} {
		select {
		case <-w:
			closedCount++
		default:
		}
	}
	if closedCount != 1 {
		t.Fatalf("expected exactly one waiter closed, got %d", closedCount)
	}
	if c.len() != 1 {
		t.Fatalf("expected one waiter left registered, got %d", c.len())
	}
}

func TestMultiContinuation_ResumeAllWakesEveryWaiter(t *testing.T) {
	var c multiContinuation
	ws := make([]waiter, 5)
	for i := range ws {
		ws[i] = make(waiter)
		c.push(ws[i])
	}
	c.resumeAll()
	for i, w := range ws {
		select {
		case <-w:
		default:
			t.Fatalf("waiter %d was not closed by resumeAll", i)
		}
	}
}

func TestMultiContinuation_EraseSpecificWaiter(t *testing.T) {
	var c multiContinuation
	w1 := make(waiter)
	w2 := make(waiter)
	c.push(w1)
	c.push(w2)
	if !c.erase(w1) {
		t.Fatal("erase should find and remove w1")
	}
	if c.erase(w1) {
		t.Fatal("erasing an already-removed waiter should report false")
	}
	if c.len() != 1 {
		t.Fatalf("expected one remaining waiter, got %d", c.len())
	}
}
