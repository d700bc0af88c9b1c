package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topic string) *Client {
	return &Client{
		hub:   hub,
		topic: topic,
		send:  make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, TopicCourier)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if !hub.rooms[TopicCourier][client] {
		t.Fatal("client not registered in courier room")
	}
}

func TestHubUnregistrationCleansRoom(t *testing.T) {
	hub := startHub(t)
	topic := OrderTopic("abc")
	client1 := mockClient(hub, topic)
	client2 := mockClient(hub, topic)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)
	if got := hub.Subscribers(topic); got != 2 {
		t.Fatalf("subscribers: got %d, want 2", got)
	}

	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)
	if got := hub.Subscribers(topic); got != 1 {
		t.Fatalf("subscribers after first unregister: got %d, want 1", got)
	}
	if _, ok := <-client1.send; ok {
		t.Error("send channel of unregistered client should be closed")
	}

	hub.unregister <- client2
	time.Sleep(10 * time.Millisecond)
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms[topic] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
}

func TestPublishOnlyReachesTopic(t *testing.T) {
	hub := startHub(t)
	courier := mockClient(hub, TopicCourier)
	watcher := mockClient(hub, OrderTopic("order-1"))
	other := mockClient(hub, OrderTopic("order-2"))

	hub.register <- courier
	hub.register <- watcher
	hub.register <- other
	time.Sleep(10 * time.Millisecond)

	payload := json.RawMessage(`{"id":"order-1","status":"Saiu para Entrega"}`)
	hub.Publish(OrderTopic("order-1"), Event{Type: "order.status_changed", Payload: payload})

	select {
	case msg := <-watcher.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		if received.Type != "order.status_changed" {
			t.Errorf("type: got %q", received.Type)
		}
		if string(received.Payload) != string(payload) {
			t.Errorf("payload: got %s, want %s", received.Payload, payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("order watcher did not receive message")
	}

	for name, c := range map[string]*Client{"courier": courier, "other order": other} {
		select {
		case <-c.send:
			t.Fatalf("%s should not have received message", name)
		case <-time.After(30 * time.Millisecond):
		}
	}
}

func TestPublishFanOutWithinTopic(t *testing.T) {
	hub := startHub(t)
	clients := []*Client{
		mockClient(hub, TopicCourier),
		mockClient(hub, TopicCourier),
		mockClient(hub, TopicCourier),
	}
	for _, c := range clients {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	hub.Publish(TopicCourier, Event{Type: "order.created", Payload: json.RawMessage(`{}`)})

	for i, c := range clients {
		select {
		case <-c.send:
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := &Client{hub: hub, topic: TopicCourier, send: make(chan []byte)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.Publish(TopicCourier, Event{Type: "order.created", Payload: json.RawMessage(`{}`)})
	time.Sleep(10 * time.Millisecond)

	if got := hub.Subscribers(TopicCourier); got != 0 {
		t.Errorf("subscribers: got %d, want 0", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := mockClient(hub, TopicCourier)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-hub.done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-client.send; ok {
		t.Error("client channel should be closed on shutdown")
	}

	// must not block after shutdown
	hub.Publish(TopicCourier, Event{Type: "late"})
}
