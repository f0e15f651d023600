package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestHubPublish(t *testing.T) {
	hub := NewHub(zap.NewNop())
	channel := UserChannel(uuid.New())

	client := hub.Register(channel)
	other := hub.Register(UserChannel(uuid.New()))

	hub.Publish(channel, "session_created", json.RawMessage(`{"slot_id":"abc"}`))

	select {
	case msg := <-client.Send():
		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Event != "session_created" {
			t.Errorf("event = %q; want session_created", env.Event)
		}
		if string(env.Data) != `{"slot_id":"abc"}` {
			t.Errorf("data = %s", env.Data)
		}
	default:
		t.Fatal("no message delivered to subscribed client")
	}

	select {
	case msg := <-other.Send():
		t.Fatalf("unexpected message on other channel: %s", msg)
	default:
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub(zap.NewNop())
	channel := UserChannel(uuid.New())

	a := hub.Register(channel)
	b := hub.Register(channel)

	if got := hub.ClientCount(channel); got != 2 {
		t.Fatalf("ClientCount = %d; want 2", got)
	}

	hub.Publish(channel, "notification", json.RawMessage(`{}`))

	for _, client := range []*Client{a, b} {
		select {
		case <-client.Send():
		default:
			t.Error("client missed fan-out message")
		}
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	channel := UserChannel(uuid.New())

	client := hub.Register(channel)
	hub.Unregister(client)

	if got := hub.ClientCount(channel); got != 0 {
		t.Errorf("ClientCount = %d; want 0", got)
	}

	// Send channel is closed so the write loop can exit
	if _, open := <-client.Send(); open {
		t.Error("send channel still open after unregister")
	}

	// Double unregister must not panic or close twice
	hub.Unregister(client)

	// Publishing to an empty channel is a no-op
	hub.Publish(channel, "session_created", json.RawMessage(`{}`))
}

func TestHubDropsWhenClientBufferFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	channel := UserChannel(uuid.New())
	client := hub.Register(channel)

	// Nobody drains: the publisher must never block
	for i := 0; i < clientSendBuffer+10; i++ {
		hub.Publish(channel, "notification", json.RawMessage(`{}`))
	}

	if got := len(client.send); got != clientSendBuffer {
		t.Errorf("buffered = %d; want %d", got, clientSendBuffer)
	}
}
