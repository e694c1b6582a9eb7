package web

import (
	"net/http"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/liaisonhq/liaison/auth"
)

// FeedbackLevel classifies a feedback message.
type FeedbackLevel string

const (
	FeedbackSuccess FeedbackLevel = "success"
	FeedbackInfo    FeedbackLevel = "info"
	FeedbackWarning FeedbackLevel = "warning"
	FeedbackError   FeedbackLevel = "error"
)

// Feedback is one transient message for a user.
type Feedback struct {
	Level   FeedbackLevel `json:"level"`
	Message string        `json:"message"`
}

// FeedbackHub holds flash messages per actor until the client collects them.
// Messages for anonymous callers share one bucket.
type FeedbackHub struct {
	pending *xsync.MapOf[string, []Feedback]
}

// NewFeedbackHub builds an empty hub.
func NewFeedbackHub() *FeedbackHub {
	return &FeedbackHub{pending: xsync.NewMapOf[string, []Feedback]()}
}

// Push queues a message for the actor.
func (h *FeedbackHub) Push(actor *auth.Actor, level FeedbackLevel, message string) {
	h.pending.Compute(actor.CacheScope(), func(cur []Feedback, _ bool) ([]Feedback, bool) {
		return append(cur, Feedback{Level: level, Message: message}), false
	})
}

// Pop returns and clears the actor's queued messages.
func (h *FeedbackHub) Pop(actor *auth.Actor) []Feedback {
	msgs, _ := h.pending.LoadAndDelete(actor.CacheScope())
	return msgs
}

// Handler serves the actor's pending feedback and clears it.
func (h *FeedbackHub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs := h.Pop(ActorFromContext(r.Context()))
		if msgs == nil {
			msgs = []Feedback{}
		}
		writeJSON(w, nil, http.StatusOK, msgs)
	}
}
