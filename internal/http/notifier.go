package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// toastEvent is the payload the front-end toast listener consumes.
type toastEvent struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// hxNotifier accumulates toasts and client events for one response and
// flushes them into the HX-Trigger header. It implements
// session.Notifier. Flush must run before the first body write.
type hxNotifier struct {
	toasts   []toastEvent
	triggers map[string]any
}

func newHXNotifier() *hxNotifier {
	return &hxNotifier{triggers: map[string]any{}}
}

func (n *hxNotifier) Success(msg string) {
	n.toasts = append(n.toasts, toastEvent{Level: "success", Message: msg})
}

func (n *hxNotifier) Error(msg string) {
	n.toasts = append(n.toasts, toastEvent{Level: "error", Message: msg})
}

// Trigger queues an arbitrary client event, e.g. a ledger refresh.
func (n *hxNotifier) Trigger(name string, payload any) {
	n.triggers[name] = payload
}

// Flush writes the accumulated events as an HX-Trigger header.
func (n *hxNotifier) Flush(w http.ResponseWriter) {
	if len(n.toasts) == 0 && len(n.triggers) == 0 {
		return
	}

	events := make(map[string]any, len(n.triggers)+1)
	for name, payload := range n.triggers {
		events[name] = payload
	}
	if len(n.toasts) > 0 {
		events["toast"] = n.toasts
	}

	body, err := json.Marshal(events)
	if err != nil {
		slog.Error("Failed to marshal HX-Trigger payload", "error", err)
		return
	}
	w.Header().Set("HX-Trigger", string(body))
}
