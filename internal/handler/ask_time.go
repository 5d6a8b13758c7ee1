package handler

import (
	"context"
	"time"

	"familiar/internal/alias"
	"familiar/internal/entity"

	"github.com/sirupsen/logrus"
)

// AskTime answers with the current local time. Read-only; kept as a handler
// so it shares the outcome contract and the dispatch fault boundary.
type AskTime struct {
	now    func() time.Time
	logger *logrus.Logger
}

func NewAskTime(logger *logrus.Logger) *AskTime {
	return &AskTime{now: time.Now, logger: logger}
}

func (h *AskTime) Intent() string {
	return entity.IntentAskTime
}

func (h *AskTime) Handle(ctx context.Context, params entity.Parameters, store alias.Store) entity.Outcome {
	current := h.now()
	return entity.SuccessOutcome(entity.IntentAskTime, "ask",
		entity.CodeTimeProvided,
		"Current time reported",
		map[string]string{
			"current_time": current.Format("15:04"),
			"current_date": current.Format("Monday, 02 January 2006"),
		})
}
