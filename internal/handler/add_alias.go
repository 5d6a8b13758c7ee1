package handler

import (
	"context"
	"fmt"
	"os/exec"

	"familiar/internal/alias"
	"familiar/internal/capability"
	"familiar/internal/entity"
	"familiar/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type addAliasParams struct {
	Entity1 string `validate:"required"`
	Entity2 string `validate:"required"`
}

// connectiveStopWords are words the extractor sometimes leaks into entity
// slots ("link browser AND chrome"). Kept as explicit configuration so the
// list can grow without touching the handler logic.
var connectiveStopWords = []string{
	"and", "or", "to", "is", "as", "the", "a", "an", "with", "means", "for",
}

// AddAlias links a free-form name to an installed command and persists the
// mapping.
type AddAlias struct {
	lookPath  capability.LookPathFunc
	stopWords []string
	validate  *validator.Validate
	logger    *logrus.Logger
}

func NewAddAlias(validate *validator.Validate, logger *logrus.Logger) *AddAlias {
	return &AddAlias{
		lookPath:  exec.LookPath,
		stopWords: connectiveStopWords,
		validate:  validate,
		logger:    logger,
	}
}

func (h *AddAlias) Intent() string {
	return entity.IntentAddAlias
}

func (h *AddAlias) Handle(ctx context.Context, params entity.Parameters, store alias.Store) entity.Outcome {
	p := addAliasParams{
		Entity1: alias.Normalize(params.Get("entity1")),
		Entity2: alias.Normalize(params.Get("entity2")),
	}

	if err := h.validate.Struct(p); err != nil {
		return entity.ErrorOutcome(entity.IntentAddAlias, "add",
			entity.CodeErrAliasParamsMissing,
			"Two names are needed to create an alias, e.g. 'link browser and google-chrome'",
			nil, entity.ErrTypeParameterMissing, "entity1 or entity2 parameter is missing")
	}

	data := map[string]string{"entity1": p.Entity1, "entity2": p.Entity2}

	for _, word := range h.stopWords {
		if p.Entity1 == word || p.Entity2 == word {
			return entity.ErrorOutcome(entity.IntentAddAlias, "add",
				entity.CodeErrAliasStopWord,
				fmt.Sprintf("'%s' does not look like a real name", word),
				data, entity.ErrTypeParameterInvalid,
				fmt.Sprintf("entity %q is a connective stop word", word))
		}
	}

	_, err1 := h.lookPath(p.Entity1)
	_, err2 := h.lookPath(p.Entity2)
	entity1IsCommand := err1 == nil
	entity2IsCommand := err2 == nil

	var command, aliasName string
	switch {
	case entity1IsCommand && !entity2IsCommand:
		command, aliasName = p.Entity1, p.Entity2
	case !entity1IsCommand && entity2IsCommand:
		command, aliasName = p.Entity2, p.Entity1
	case entity1IsCommand && entity2IsCommand:
		return entity.ErrorOutcome(entity.IntentAddAlias, "add",
			entity.CodeErrAliasBothCommands,
			fmt.Sprintf("Both '%s' and '%s' are existing commands, not sure which one is the alias", p.Entity1, p.Entity2),
			data, entity.ErrTypeAmbiguous, "both entities resolve as system commands")
	default:
		return entity.ErrorOutcome(entity.IntentAddAlias, "add",
			entity.CodeErrAliasNoCommand,
			fmt.Sprintf("Neither '%s' nor '%s' is a known command on this system", p.Entity1, p.Entity2),
			data, entity.ErrTypeNotFound, "neither entity resolves as a system command")
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"alias":   aliasName,
		"command": command,
	}).Info("Adding alias")

	data["alias_name"] = aliasName
	data["command_name"] = command

	status, err := store.Upsert(aliasName, command)
	switch status {
	case alias.Conflict:
		existing, _ := store.Get(aliasName)
		data["existing_target"] = existing
		return entity.ErrorOutcome(entity.IntentAddAlias, "add",
			entity.CodeErrAliasConflict,
			fmt.Sprintf("'%s' already means '%s'", aliasName, existing),
			data, entity.ErrTypeConflict,
			fmt.Sprintf("alias %q already maps to %q", aliasName, existing))
	case alias.Unchanged:
		return entity.SuccessOutcome(entity.IntentAddAlias, "add",
			entity.CodeAliasAlreadyExists,
			fmt.Sprintf("'%s' already means '%s'", aliasName, command), data)
	}

	if err != nil {
		// The alias works for this session; only the disk write failed.
		return entity.ErrorOutcome(entity.IntentAddAlias, "add",
			entity.CodeErrAliasSaveFailed,
			fmt.Sprintf("Remembered '%s' for now, but could not save it permanently", aliasName),
			data, entity.ErrTypePersistence, err.Error())
	}

	return entity.SuccessOutcome(entity.IntentAddAlias, "add",
		entity.CodeAliasAdded,
		fmt.Sprintf("'%s' now means '%s'", aliasName, command), data)
}
