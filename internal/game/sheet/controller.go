// Package sheet is the werewolf character sheet controller. It turns player
// actions into rules-engine calls and persists the resulting actor state.
//
// Dialogs, chat, dice, and storage are collaborators passed in at
// construction, so the controller runs the same under a terminal, a test,
// or any other front end.
package sheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/dice"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/modifier"
	"github.com/cory-johannsen/wta/internal/game/rage"
	"github.com/cory-johannsen/wta/internal/observability"
)

// ErrGiftNotFound is returned when a gift ID is not among the actor's items.
var ErrGiftNotFound = errors.New("gift not found")

// Store loads and persists actors. Concurrent writes to one actor are the
// store's concern.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*character.Actor, error)
	Save(ctx context.Context, a *character.Actor) error
}

// Roller executes pool rolls. *dice.Roller satisfies it.
type Roller interface {
	RollPool(title string, p dice.Pool) dice.PoolResult
}

// Button is one choice in a Dialog.
type Button struct {
	ID    string
	Label string
}

// InputKind selects the optional input field of a Dialog.
type InputKind int

const (
	InputNone InputKind = iota
	InputSelect
	InputText
)

// Option is one entry of a select input.
type Option struct {
	Value string
	Label string
}

// Dialog is a modal prompt with an optional input field.
type Dialog struct {
	Title   string
	Body    string
	Input   InputKind
	Label   string
	Options []Option
	Initial string
	Buttons []Button
	Default string
}

// Response is the player's answer to a Dialog. A dismissed dialog answers
// with an empty Button.
type Response struct {
	Button string
	Value  string
}

// Prompter shows modal dialogs and blocks until the player answers.
type Prompter interface {
	Prompt(ctx context.Context, d Dialog) (Response, error)
}

// Message is a chat card.
type Message struct {
	Speaker string
	Title   string
	Body    string
	Items   []string
	// Macro is the host macro attached to a gift roll, if any.
	Macro string
}

// Chat publishes messages to the table.
type Chat interface {
	Post(ctx context.Context, m Message) error
}

// Button identifiers shared by the sheet dialogs.
const (
	ButtonSubmit = "submit"
	ButtonCancel = "cancel"
)

// Deps are the collaborators of a Controller.
type Deps struct {
	Store    Store
	Roller   Roller
	Prompter Prompter
	Chat     Chat
	Bonuses  modifier.Aggregator
	Rage     *rage.Machine
	Catalog  *gift.Catalog
	Logger   *zap.Logger
}

// Controller handles sheet actions for any actor in the store.
type Controller struct {
	store   Store
	roller  Roller
	prompt  Prompter
	chat    Chat
	bonuses modifier.Aggregator
	rage    *rage.Machine
	catalog *gift.Catalog
	logger  *zap.Logger
}

// NewController creates a Controller.
//
// Precondition: every field of d must be non-nil.
func NewController(d Deps) *Controller {
	return &Controller{
		store:   d.Store,
		roller:  d.Roller,
		prompt:  d.Prompter,
		chat:    d.Chat,
		bonuses: d.Bonuses,
		rage:    d.Rage,
		catalog: d.Catalog,
		logger:  d.Logger,
	}
}

func (c *Controller) load(ctx context.Context, id uuid.UUID) (*character.Actor, *zap.Logger, error) {
	a, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading actor %s: %w", id, err)
	}
	return a, observability.WithActor(c.logger, a.ID, a.Name), nil
}

func (c *Controller) save(ctx context.Context, a *character.Actor) error {
	if err := c.store.Save(ctx, a); err != nil {
		return fmt.Errorf("saving actor %s: %w", a.ID, err)
	}
	return nil
}

// settle persists a and, when tr raised Lost the Wolf, asks for a resting form.
func (c *Controller) settle(ctx context.Context, a *character.Actor, tr rage.Transition, log *zap.Logger) error {
	if err := c.save(ctx, a); err != nil {
		return err
	}
	if tr.WolfLost {
		return c.promptRestingForm(ctx, a, log)
	}
	return nil
}

func (c *Controller) promptRestingForm(ctx context.Context, a *character.Actor, log *zap.Logger) error {
	resp, err := c.prompt.Prompt(ctx, Dialog{
		Title: "Lost the Wolf",
		Body:  "Your rage is spent. Shift down to a resting form.",
		Buttons: []Button{
			{ID: character.FormHomid.String(), Label: character.FormHomid.DisplayName()},
			{ID: character.FormLupus.String(), Label: character.FormLupus.DisplayName()},
		},
		Default: character.FormHomid.String(),
	})
	if err != nil {
		return fmt.Errorf("prompting resting form: %w", err)
	}
	if resp.Button == "" {
		log.Info("resting form prompt dismissed")
		return nil
	}
	if err := c.rage.ResolveLostTheWolf(a, character.ParseForm(resp.Button)); err != nil {
		return err
	}
	return c.save(ctx, a)
}
