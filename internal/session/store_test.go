package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session event")
		return Event{}
	}
}

func TestSignInSignOut(t *testing.T) {
	store := NewStore()
	_, ok := store.Current()
	assert.False(t, ok)
	assert.Empty(t, store.Token())

	events, unsubscribe := store.Subscribe()
	defer unsubscribe()

	id := Identity{UserID: uuid.New(), Email: "cook@example.com", Token: "abc"}
	store.SignIn(id)
	ev := recv(t, events)
	assert.Equal(t, EventSignedIn, ev.Type)
	assert.Equal(t, id, ev.Identity)

	cur, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, id.UserID, cur.UserID)
	assert.Equal(t, "abc", store.Token())

	store.SignOut()
	ev = recv(t, events)
	assert.Equal(t, EventSignedOut, ev.Type)
	assert.Equal(t, id.UserID, ev.Identity.UserID)
	_, ok = store.Current()
	assert.False(t, ok)
}

func TestSignOutWhenSignedOutIsNoop(t *testing.T) {
	store := NewStore()
	events, unsubscribe := store.Subscribe()
	defer unsubscribe()

	store.SignOut()
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %s", ev.Type)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	store := NewStore()
	events, unsubscribe := store.Subscribe()
	unsubscribe()
	unsubscribe()

	// must not block even though nobody reads the channel
	for i := 0; i < 10; i++ {
		store.SignIn(Identity{UserID: uuid.New()})
	}
	assert.Empty(t, events)
}

func TestEventsKeepOrder(t *testing.T) {
	store := NewStore()
	events, unsubscribe := store.Subscribe()
	defer unsubscribe()

	go func() {
		for i := 0; i < 5; i++ {
			store.SignIn(Identity{UserID: uuid.New()})
			store.SignOut()
		}
	}()
	for i := 0; i < 10; i++ {
		ev := recv(t, events)
		if i%2 == 0 {
			assert.Equal(t, EventSignedIn, ev.Type)
		} else {
			assert.Equal(t, EventSignedOut, ev.Type)
		}
	}
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "signed_in", EventSignedIn.String())
	assert.Equal(t, "signed_out", EventSignedOut.String())
	assert.Equal(t, "unknown", EventType(0).String())
}
