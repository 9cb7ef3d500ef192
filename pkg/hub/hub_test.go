package hub

import (
	"testing"
	"time"
)

// register adds a bare client directly, bypassing the websocket pumps.
func register(t *testing.T, h *Hub) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, 4)}
	h.register <- c
	return c
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func TestBroadcastReachesClients(t *testing.T) {
	h := New("test")
	go h.Run()

	a := register(t, h)
	b := register(t, h)

	h.Broadcast([]byte(`{"pose":[]}`))

	for _, c := range []*Client{a, b} {
		if got := string(recv(t, c)); got != `{"pose":[]}` {
			t.Errorf("payload = %s, want {\"pose\":[]}", got)
		}
	}
}

func TestLateSubscriberGetsLastPayload(t *testing.T) {
	h := New("test")
	go h.Run()

	first := register(t, h)
	h.Broadcast([]byte(`{"pose":[]}`))
	recv(t, first)

	late := register(t, h)
	if got := string(recv(t, late)); got != `{"pose":[]}` {
		t.Errorf("replayed payload = %s, want {\"pose\":[]}", got)
	}
}

func TestSlowClientDropConcurrentWithClientCount(t *testing.T) {
	h := New("test")
	go h.Run()

	// One-slot buffer so the second broadcast overflows and drops the
	// client, mutating the map while ClientCount reads it.
	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- c

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			h.ClientCount()
		}
	}()

	for i := 0; i < 1000; i++ {
		h.Broadcast([]byte(`{"pose":[]}`))
	}
	<-done

	deadline := time.After(time.Second)
	for h.ClientCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("slow client was never dropped")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestNewestCollapsesBacklog(t *testing.T) {
	ch := make(chan []byte, 4)
	ch <- []byte("stale")
	ch <- []byte("newer")
	ch <- []byte("current")

	latest, open := newest([]byte("oldest"), ch)
	if !open {
		t.Fatal("channel should still be open")
	}
	if string(latest) != "current" {
		t.Errorf("latest = %s, want current", latest)
	}
	if len(ch) != 0 {
		t.Errorf("backlog = %d payloads, want 0", len(ch))
	}
}

func TestNewestReportsClosedChannel(t *testing.T) {
	ch := make(chan []byte, 2)
	ch <- []byte("last")
	close(ch)

	latest, open := newest([]byte("first"), ch)
	if open {
		t.Fatal("channel close should be reported")
	}
	if string(latest) != "last" {
		t.Errorf("latest = %s, want last", latest)
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := New("test")
	go h.Run()

	c := register(t, h)
	h.unregister <- c

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("send channel should be closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	if n := h.ClientCount(); n != 0 {
		t.Errorf("ClientCount() = %d, want 0", n)
	}
}
