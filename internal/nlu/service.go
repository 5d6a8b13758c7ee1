package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"familiar/internal/entity"
	"familiar/pkg/log"
	"familiar/pkg/ollama"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoResponse: the model endpoint could not be reached or timed out.
	// The utterance is lost; the caller informs the user and may resubmit.
	ErrNoResponse = errors.New("nlu: no response from model")
	// ErrUnparseable: the model answered but the content held no usable
	// intent envelope.
	ErrUnparseable = errors.New("nlu: unparseable model response")
)

type IExtractor interface {
	Extract(ctx context.Context, utterance string) (*entity.Envelope, error)
}

type extractor struct {
	completer ollama.Completer
	logger    *logrus.Logger
}

func NewExtractor(completer ollama.Completer, logger *logrus.Logger) IExtractor {
	return &extractor{
		completer: completer,
		logger:    logger,
	}
}

// Extract runs the utterance through the NLU prompt and scrapes the first
// JSON object carrying an "intent" key out of the model's reply.
func (e *extractor) Extract(ctx context.Context, utterance string) (*entity.Envelope, error) {
	prompt := BuildPrompt(utterance)

	raw, err := e.completer.Complete(ctx, prompt, ollama.Options{
		Temperature:   0.3,
		RepeatPenalty: 1.15,
		NumPredict:    150,
	})
	if err != nil {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("NLU completion failed")
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"raw": raw,
	}).Debug("Raw NLU model response")

	fields, ok := ParseObject(raw, "intent")
	if !ok {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"raw": raw,
		}).Warn("No intent envelope found in model response")
		return nil, ErrUnparseable
	}

	envelope := &entity.Envelope{Parameters: entity.Parameters{}}

	if err := json.Unmarshal(fields["intent"], &envelope.Intent); err != nil || envelope.Intent == "" {
		return nil, ErrUnparseable
	}

	if rawParams, present := fields["parameters"]; present {
		if err := json.Unmarshal(rawParams, &envelope.Parameters); err != nil {
			// A broken parameters object is not fatal: handlers validate
			// required keys themselves and answer with a typed outcome.
			log.WithRequestID(ctx).Warn("Ignoring malformed parameters object in envelope")
			envelope.Parameters = entity.Parameters{}
		}
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"intent":     envelope.Intent,
		"parameters": envelope.Parameters,
	}).Info("Intent extracted")

	return envelope, nil
}
