package notify

import (
	"testing"
	"time"

	"quantumreview/internal/model"
)

func TestHub_BroadcastToRepoTopic(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("repo-1")
	defer sub.Close()

	other := h.Subscribe("repo-2")
	defer other.Close()

	h.Broadcast(model.Notification{RepoID: "repo-1", Kind: model.NotificationChecklistReady})

	select {
	case n := <-sub.C:
		if n.Kind != model.NotificationChecklistReady {
			t.Errorf("kind = %s, want checklist_ready", n.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive notification")
	}

	select {
	case n := <-other.C:
		t.Errorf("unrelated topic received %+v", n)
	default:
	}
}

func TestHub_TopicAllReceivesEverything(t *testing.T) {
	h := NewHub()
	all := h.Subscribe(TopicAll)
	defer all.Close()

	h.Broadcast(model.Notification{RepoID: "repo-1"})
	h.Broadcast(model.Notification{RepoID: "repo-2"})

	for i := 0; i < 2; i++ {
		select {
		case <-all.C:
		case <-time.After(time.Second):
			t.Fatalf("TopicAll missed notification %d", i)
		}
	}
}

func TestHub_SlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("repo-1")
	defer sub.Close()

	// Overfill the buffer. Broadcast must return regardless.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriptionBuffer*3; i++ {
			h.Broadcast(model.Notification{RepoID: "repo-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a slow subscriber")
	}
}

func TestHub_CloseStopsDelivery(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("repo-1")
	sub.Close()
	sub.Close() // Close is idempotent

	h.Broadcast(model.Notification{RepoID: "repo-1"})

	// Channel is closed, reads drain instantly.
	if _, ok := <-sub.C; ok {
		t.Error("received on closed subscription")
	}
}
