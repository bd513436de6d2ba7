package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

// CHAT_CHANNEL fans chat messages out to websocket clients on every instance.
const CHAT_CHANNEL Channel = "chat"

type EventType string

const (
	DESIGN_CREATED          EventType = "design.created"
	QUOTE_CREATED           EventType = "quote.created"
	PROGRESS_UPDATE_CREATED EventType = "progress_update.created"
	CHAT_MESSAGE_CREATED    EventType = "chat.message_created"
)

// Event is a domain fact published after a successful write.
// Payload carries the persisted record for in-process handlers and is never
// serialised; Data is what crosses the fan-out channel.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Channel   Channel        `json:"channel,omitempty"`
	UserID    *uint          `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Payload   any            `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventHandler runs synchronously inside Publish; its error reaches the publisher.
type EventHandler func(ctx context.Context, event Event) error

// Listener receives fan-out events, possibly from another instance.
type Listener func(event Event)

type EventBus struct {
	client    valkey.Client
	log       logger.Logger
	handlers  map[EventType][]EventHandler
	listeners map[Channel][]Listener
	mutex     sync.RWMutex
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// New builds a bus. A nil client keeps fan-out in process.
func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		log:       logger.New("EventBus"),
		handlers:  make(map[EventType][]EventHandler),
		listeners: make(map[Channel][]Listener),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.log.Function("Subscribe").Info("Handler subscribed", "eventType", eventType)
}

// Publish runs every handler for event.Type in registration order and joins
// their errors. Events with a Channel are then fanned out; fan-out failures
// are logged only.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	log := eb.log.TraceFromContext(ctx).Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[event.Type]...)
	eb.mutex.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return log.Err("event handler failed", err, "eventID", event.ID, "eventType", event.Type)
	}

	if event.Channel != "" {
		if err := eb.fanOut(event); err != nil {
			log.Warn("failed to fan out event", "eventID", event.ID, "channel", event.Channel, "error", err)
		}
	}

	return nil
}

// Listen registers a fan-out listener. With valkey configured the first
// listener on a channel starts a subscription goroutine.
func (eb *EventBus) Listen(channel Channel, listener Listener) {
	eb.mutex.Lock()
	first := len(eb.listeners[channel]) == 0
	eb.listeners[channel] = append(eb.listeners[channel], listener)
	eb.mutex.Unlock()

	if first && eb.client != nil {
		eb.wg.Add(1)
		go eb.listenToChannel(channel)
	}
}

func (eb *EventBus) fanOut(event Event) error {
	if eb.client == nil {
		eb.notifyListeners(event.Channel, event)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	return eb.client.Do(
		ctx,
		eb.client.B().Publish().Channel(event.Channel.String()).Message(string(eventData)).Build(),
	).Error()
}

func (eb *EventBus) notifyListeners(channel Channel, event Event) {
	eb.mutex.RLock()
	listeners := append([]Listener(nil), eb.listeners[channel]...)
	eb.mutex.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	defer eb.wg.Done()
	log := eb.log.Function("listenToChannel")

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel)
				return
			}
			eb.notifyListeners(channel, event)
		},
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	eb.cancel()
	eb.wg.Wait()

	eb.log.Function("Close").Info("EventBus closed")
	return nil
}
