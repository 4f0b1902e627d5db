package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var Emit = func(ctx context.Context, name string, evt StreamEvent) {}

func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt StreamEvent) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}

		// Every progressive text event reaches the frontend; only terminal
		// ones are worth a log line.
		runtime.EventsEmit(ctx, name, evt)

		if evt.Type == EventSuccess || evt.Type == EventError {
			logRuntimeEvent(ctx, name, evt)
		}
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt StreamEvent)) {
	if f == nil {
		Emit = func(context.Context, string, StreamEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt StreamEvent) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}
