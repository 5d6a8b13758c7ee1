package dispatch

import (
	"context"
	"fmt"

	"familiar/internal/alias"
	"familiar/internal/entity"
	"familiar/internal/handler"
	"familiar/pkg/log"

	"github.com/sirupsen/logrus"
)

// Dispatcher owns the intent→handler routing table and the alias store for
// the process lifetime. Two invariants hold for every call: an unknown
// intent never raises, and a handler fault never escapes Dispatch.
type Dispatcher struct {
	routes map[string]handler.Handler
	store  alias.Store
	logger *logrus.Logger
}

func New(store alias.Store, logger *logrus.Logger, handlers ...handler.Handler) *Dispatcher {
	routes := make(map[string]handler.Handler, len(handlers))
	for _, h := range handlers {
		routes[h.Intent()] = h
	}

	logger.WithFields(logrus.Fields{
		"intents": len(routes),
		"aliases": store.Len(),
	}).Info("Dispatcher initialized")

	return &Dispatcher{
		routes: routes,
		store:  store,
		logger: logger,
	}
}

// Store exposes the live alias table to front-ends that want to inspect it.
func (d *Dispatcher) Store() alias.Store {
	return d.store
}

// Dispatch routes a validated envelope to its handler. With debug set it
// performs no side effects and returns an echo of the recognized structure
// instead; no handler is ever called on that path.
func (d *Dispatcher) Dispatch(ctx context.Context, env *entity.Envelope, debug bool) (outcome entity.Outcome) {
	if env == nil || env.Intent == "" {
		log.WithRequestID(ctx).Warn("Dispatch received an invalid envelope")
		return entity.ErrorOutcome(entity.IntentUnknown, "unknown",
			entity.CodeInvalidEnvelope,
			"The command could not be recognized",
			nil, entity.ErrTypeParameterMissing, "envelope is absent or has no intent")
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"intent":     env.Intent,
		"parameters": env.Parameters,
		"debug":      debug,
	}).Info("Dispatching intent")

	if debug {
		return d.echo(env)
	}

	h, ok := d.routes[env.Intent]
	if !ok {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"intent": env.Intent,
		}).Warn("No handler registered for intent")
		return entity.ErrorOutcome(env.Intent, "unknown",
			entity.CodeIntentNotImplemented,
			"Sorry, I cannot handle that kind of command yet",
			nil, entity.ErrTypeNotImplemented,
			fmt.Sprintf("no handler registered for intent %q", env.Intent))
	}

	// Fault boundary: a panicking handler becomes a structured error, never
	// a crash of the loop.
	defer func() {
		if r := recover(); r != nil {
			log.WithRequestID(ctx).WithFields(logrus.Fields{
				"intent": env.Intent,
				"panic":  fmt.Sprintf("%v", r),
			}).Error("Handler panicked")
			outcome = entity.ErrorOutcome(env.Intent, "unknown",
				entity.CodeHandlerPanic,
				fmt.Sprintf("Something went wrong while executing '%s'", env.Intent),
				nil, entity.ErrTypeUnhandled, fmt.Sprintf("handler panic: %v", r))
		}
	}()

	return h.Handle(ctx, env.Parameters, d.store)
}

// echo is the pure read path behind the --debug flag: recognized structure
// only, alias resolution shown for reference, no capability calls.
func (d *Dispatcher) echo(env *entity.Envelope) entity.Outcome {
	data := map[string]string{"intent": env.Intent}
	for key, value := range env.Parameters {
		data["param_"+key] = value
	}

	if name := env.Parameters.Get("app_name"); name != "" {
		data["canonical_name"] = d.store.Resolve(name)
	}

	return entity.SuccessOutcome(env.Intent, "debug_echo",
		entity.CodeDebugEcho,
		fmt.Sprintf("DEBUG: intent='%s', parameters=%v", env.Intent, env.Parameters),
		data)
}
