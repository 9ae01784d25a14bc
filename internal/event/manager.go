package event

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu        sync.Mutex
	listeners = make([]*Listener, 0)
)

type Listener struct {
	eventType Type
	channel   chan interface{}
}

func AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := Listener{
		eventType: eventType,
		channel:   make(chan interface{}),
	}

	mu.Lock()
	listeners = append(listeners, &listener)
	mu.Unlock()

	go func() {
		for msg := range listener.channel {
			callback(msg)
		}
	}()
}

func EmitEvent(eventType Type, msg interface{}) {
	mu.Lock()
	matching := make([]chan interface{}, 0)
	for _, listener := range listeners {
		if listener.eventType == eventType {
			matching = append(matching, listener.channel)
		}
	}
	mu.Unlock()

	for _, handler := range matching {
		zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
		go func(handler chan interface{}) {
			handler <- msg
		}(handler)
	}
}
