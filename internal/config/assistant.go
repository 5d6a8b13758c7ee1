package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"familiar/internal/alias"
	"familiar/internal/capability"
	"familiar/internal/dispatch"
	"familiar/internal/handler"
	"familiar/internal/nlu"
	"familiar/internal/respond"
	"familiar/pkg/audio"
	contextPkg "familiar/pkg/context"
	"familiar/pkg/gemini"
	"familiar/pkg/log"
	"familiar/pkg/ollama"
	"familiar/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type AssistantOption func(*Assistant) error

// Assistant wires the full command pipeline: extractor, dispatcher with its
// handlers, and the response renderer. Front-ends talk to it through
// HandleUtterance only.
type Assistant struct {
	log          *logrus.Logger
	validator    *validator.Validate
	utils        utils.IUtils
	ollamaClient ollama.IOllama
	geminiClient gemini.IGemini
	transcriber  audio.ITranscriber
	store        alias.Store
	extractor    nlu.IExtractor
	dispatcher   *dispatch.Dispatcher
	renderer     respond.IRenderer
	debug        bool
}

func NewAssistant(options ...AssistantOption) (*Assistant, error) {
	assistant := &Assistant{}

	for _, option := range options {
		if err := option(assistant); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if assistant.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if assistant.ollamaClient == nil {
		return nil, fmt.Errorf("ollama client is required")
	}
	if assistant.store == nil {
		return nil, fmt.Errorf("alias store is required")
	}

	assistant.extractor = nlu.NewExtractor(assistant.ollamaClient, assistant.log)
	assistant.renderer = respond.NewRenderer(assistant.rendererCompleter(), assistant.log)
	assistant.registerHandlers()

	return assistant, nil
}

func WithLogger(logger *logrus.Logger) AssistantOption {
	return func(a *Assistant) error {
		a.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) AssistantOption {
	return func(a *Assistant) error {
		a.validator = validator
		return nil
	}
}

func WithUtils() AssistantOption {
	return func(a *Assistant) error {
		a.utils = utils.New()
		return nil
	}
}

func WithOllama() AssistantOption {
	return func(a *Assistant) error {
		if a.log == nil {
			return fmt.Errorf("logger must be initialized before ollama")
		}
		a.ollamaClient = ollama.New(a.log)
		return nil
	}
}

// WithGeminiClient is optional; when GEMINI_API_KEY is absent the reply
// renderer keeps using the local model.
func WithGeminiClient() AssistantOption {
	return func(a *Assistant) error {
		if os.Getenv("GEMINI_API_KEY") == "" {
			return nil
		}
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if a.log != nil {
				a.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		a.geminiClient = client
		return nil
	}
}

func WithTranscriber() AssistantOption {
	return func(a *Assistant) error {
		a.transcriber = audio.NewTranscriptionService()
		return nil
	}
}

// WithAliasStore selects the backend from ALIAS_STORE: "redis" or the
// default JSON file at ALIASES_FILE_PATH.
func WithAliasStore() AssistantOption {
	return func(a *Assistant) error {
		if a.log == nil {
			return fmt.Errorf("logger must be initialized before the alias store")
		}

		if os.Getenv("ALIAS_STORE") == "redis" {
			store, err := alias.NewRedisStore(a.log)
			if err != nil {
				return fmt.Errorf("failed to create redis alias store: %w", err)
			}
			a.store = store
			return nil
		}

		path := os.Getenv("ALIASES_FILE_PATH")
		if path == "" {
			path = "app_aliases.json"
		}
		store, err := alias.NewFileStore(path, a.log)
		if err != nil {
			return fmt.Errorf("failed to create file alias store: %w", err)
		}
		a.store = store
		return nil
	}
}

func WithDebug(debug bool) AssistantOption {
	return func(a *Assistant) error {
		a.debug = debug
		return nil
	}
}

func (a *Assistant) registerHandlers() {
	procs := capability.NewProcessManager(a.log)
	windows := capability.NewWindowActivator(a.log)
	runner := capability.NewCommandRunner(a.log)

	a.dispatcher = dispatch.New(a.store, a.log,
		handler.NewManageApp(procs, windows, a.validator, a.log),
		handler.NewManageSystem(runner, a.validator, a.log),
		handler.NewAddAlias(a.validator, a.log),
		handler.NewAskTime(a.log),
	)
}

func (a *Assistant) rendererCompleter() ollama.Completer {
	if a.geminiClient != nil {
		return a.geminiClient
	}
	return a.ollamaClient
}

func (a *Assistant) Transcriber() audio.ITranscriber {
	return a.transcriber
}

func (a *Assistant) Store() alias.Store {
	return a.store
}

// HandleUtterance runs one command through the whole pipeline and returns
// the text to say back. Extraction failures map to fixed apologies so the
// front-ends never see a raw error for user input.
func (a *Assistant) HandleUtterance(ctx context.Context, text string) string {
	ctx = contextPkg.WithRequestID(ctx, log.NewRequestID())
	entry := log.WithRequestID(ctx)
	if a.utils != nil {
		if commandID, err := a.utils.NewULIDFromTimestamp(time.Now()); err == nil {
			entry = entry.WithField("command_id", commandID)
		}
	}

	entry.WithFields(logrus.Fields{
		"utterance": text,
	}).Info("Processing command")

	env, err := a.extractor.Extract(ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, nlu.ErrNoResponse):
			entry.Error("Recognition backend did not respond")
			return "Sorry, I could not reach the command recognition service."
		case errors.Is(err, nlu.ErrUnparseable):
			entry.Error("Recognition output could not be parsed")
			return "Sorry, I did not quite understand the recognizer. Please try rephrasing."
		default:
			entry.WithFields(logrus.Fields{"error": err.Error()}).Error("Intent extraction failed")
			return "An internal error occurred while interpreting your command."
		}
	}

	outcome := a.dispatcher.Dispatch(ctx, env, a.debug)
	if a.debug {
		return outcome.UserMessageHint
	}

	reply := a.renderer.Render(ctx, outcome)

	entry.WithFields(logrus.Fields{
		"intent":       outcome.Intent,
		"message_code": outcome.MessageCode,
	}).Info("Command processed")

	return reply
}

// Close releases clients that hold outbound connections.
func (a *Assistant) Close() {
	if a.geminiClient != nil {
		a.geminiClient.Close()
	}
}
