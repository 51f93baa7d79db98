package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/command"
	"github.com/cory-johannsen/wta/internal/game/dice"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/sheet"
)

// ErrNoActor is returned by commands that need an open sheet when none is.
var ErrNoActor = errors.New("no sheet open; use new or load")

// Directory is a sheet store that can also list its actors.
type Directory interface {
	sheet.Store
	List(ctx context.Context) ([]*character.Actor, error)
}

// ExprRoller rolls raw pool expressions. *dice.Roller satisfies it.
type ExprRoller interface {
	RollExpr(expr string) (dice.PoolResult, error)
}

// Session is one player's command loop over a Terminal.
type Session struct {
	term   *Terminal
	ctl    *sheet.Controller
	dir    Directory
	dice   ExprRoller
	reg    *command.Registry
	logger *zap.Logger

	current uuid.UUID
	gifts   []gift.Gift
}

// NewSession creates a Session.
//
// Precondition: all arguments must be non-nil.
func NewSession(term *Terminal, ctl *sheet.Controller, dir Directory, roller ExprRoller, reg *command.Registry, logger *zap.Logger) *Session {
	return &Session{term: term, ctl: ctl, dir: dir, dice: roller, reg: reg, logger: logger}
}

// Current returns the ID of the open sheet, or uuid.Nil.
func (s *Session) Current() uuid.UUID {
	return s.current
}

// Open makes id the open sheet.
func (s *Session) Open(id uuid.UUID) {
	s.current = id
	s.gifts = nil
}

// Run reads and executes commands until quit, end of input, or ctx is done.
// Command errors are reported to the player and do not end the session.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.term.Write("> "); err != nil {
			return err
		}
		line, err := s.term.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			s.logger.Warn("command failed", zap.String("line", line), zap.Error(err))
			if werr := s.term.WriteLine(s.term.render.p.Colorf(Red, "error: %v", err)); werr != nil {
				return werr
			}
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line.
//
// Postcondition: quit is true only for the quit command.
func (s *Session) Exec(ctx context.Context, line string) (quit bool, err error) {
	pr := command.Parse(line)
	if pr.Command == "" {
		return false, nil
	}
	cmd, err := s.reg.Resolve(pr.Command)
	if err != nil {
		return false, err
	}

	switch cmd.Handler {
	case command.HandlerQuit:
		return true, nil
	case command.HandlerHelp:
		return false, s.help()
	case command.HandlerNew:
		return false, s.create(ctx, pr.RawArgs)
	case command.HandlerLoad:
		return false, s.load(ctx, pr.RawArgs)
	case command.HandlerList:
		return false, s.list(ctx)
	case command.HandlerDice:
		return false, s.rollExpr(pr.RawArgs)
	}

	if s.current == uuid.Nil {
		return false, ErrNoActor
	}
	switch cmd.Handler {
	case command.HandlerShow:
		return false, s.show(ctx)
	case command.HandlerSet:
		return false, s.set(ctx, pr.Args)
	case command.HandlerRoll:
		return false, s.rollGift(ctx, pr.RawArgs)
	case command.HandlerHarano:
		_, err = s.ctl.RollHarano(ctx, s.current)
		return false, err
	case command.HandlerHauglosk:
		_, err = s.ctl.RollHauglosk(ctx, s.current)
		return false, err
	case command.HandlerFrenzy:
		return false, s.then(ctx, s.ctl.BeginFrenzy(ctx, s.current))
	case command.HandlerCalm:
		return false, s.then(ctx, s.ctl.EndFrenzy(ctx, s.current))
	case command.HandlerRage:
		delta, err := oneInt(pr.Args, "rage <delta>")
		if err != nil {
			return false, err
		}
		return false, s.then(ctx, s.ctl.AdjustRage(ctx, s.current, delta))
	case command.HandlerShift:
		return false, s.shift(ctx, pr.Args)
	case command.HandlerForm:
		f, err := formArg(pr.Args)
		if err != nil {
			return false, err
		}
		return false, s.ctl.FormToChat(ctx, s.current, f)
	case command.HandlerEditForm:
		f, err := formArg(pr.Args)
		if err != nil {
			return false, err
		}
		_, err = s.ctl.EditForm(ctx, s.current, f)
		return false, err
	case command.HandlerAddGift:
		_, err = s.ctl.AddGiftType(ctx, s.current)
		return false, err
	case command.HandlerLearn:
		return false, s.learn(ctx, pr)
	case command.HandlerGiftInfo:
		if len(pr.Args) != 1 {
			return false, errors.New("usage: giftinfo <type>")
		}
		return false, s.ctl.GiftToChat(ctx, s.current, pr.Args[0])
	default:
		return false, fmt.Errorf("command %q has no handler", cmd.Name)
	}
}

// then prints the rage line after a successful state change.
func (s *Session) then(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	a, err := s.dir.Get(ctx, s.current)
	if err != nil {
		return err
	}
	return s.term.WriteLine(s.term.render.RenderStatus(a))
}

func (s *Session) help() error {
	var b strings.Builder
	cats := s.reg.CommandsByCategory()
	for _, c := range []string{
		command.CategoryActor, command.CategoryRoll, command.CategoryRage,
		command.CategoryForm, command.CategoryGift, command.CategorySystem,
	} {
		b.WriteString(s.term.render.p.Colorize(Cyan, strings.ToUpper(c[:1])+c[1:]+":"))
		b.WriteString("\n")
		for _, cmd := range cats[c] {
			fmt.Fprintf(&b, "  %-10s %s\n", cmd.Name, cmd.Help)
		}
	}
	return s.term.Write(b.String())
}

func (s *Session) create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("usage: new <name>")
	}
	a := character.NewActor(name)
	if err := s.dir.Save(ctx, a); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	s.logger.Info("actor created", zap.Stringer("actor_id", a.ID), zap.String("actor", a.Name))
	s.Open(a.ID)
	return s.show(ctx)
}

func (s *Session) load(ctx context.Context, arg string) error {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return errors.New("usage: load <name|id>")
	}
	if id, err := uuid.Parse(arg); err == nil {
		if _, err := s.dir.Get(ctx, id); err != nil {
			return err
		}
		s.Open(id)
		return s.show(ctx)
	}
	actors, err := s.dir.List(ctx)
	if err != nil {
		return err
	}
	for _, a := range actors {
		if strings.EqualFold(a.Name, arg) {
			s.Open(a.ID)
			return s.show(ctx)
		}
	}
	return fmt.Errorf("no werewolf named %q", arg)
}

func (s *Session) list(ctx context.Context) error {
	actors, err := s.dir.List(ctx)
	if err != nil {
		return err
	}
	if len(actors) == 0 {
		return s.term.WriteLine("No werewolves yet.")
	}
	var b strings.Builder
	for _, a := range actors {
		marker := " "
		if a.ID == s.current {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %-24s %s  rage %d  %s\n", marker, a.Name, a.ActiveForm.DisplayName(), a.Rage, a.ID)
	}
	return s.term.Write(b.String())
}

func (s *Session) show(ctx context.Context) error {
	v, err := s.ctl.Prepare(ctx, s.current)
	if err != nil {
		return err
	}
	text, order := s.term.render.RenderView(v)
	s.gifts = order
	return s.term.Write(text)
}

func (s *Session) set(ctx context.Context, args []string) error {
	const usage = "usage: set <ability|skill|renown> <key> <value> | set <harano|hauglosk> <value>"
	if len(args) == 2 && (args[0] == "harano" || args[0] == "hauglosk") {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.New(usage)
		}
		a, err := s.dir.Get(ctx, s.current)
		if err != nil {
			return err
		}
		b := a.Balance
		if args[0] == "harano" {
			b.Harano = n
		} else {
			b.Hauglosk = n
		}
		return s.ctl.SetBalance(ctx, s.current, b)
	}
	if len(args) != 3 {
		return errors.New(usage)
	}
	cat, ok := character.ParseTraitCategory(args[0])
	if !ok {
		return errors.New(usage)
	}
	n, err := strconv.Atoi(args[2])
	if err != nil {
		return errors.New(usage)
	}
	return s.ctl.SetRating(ctx, s.current, cat, strings.ToLower(args[1]), n)
}

func (s *Session) rollGift(ctx context.Context, arg string) error {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return errors.New("usage: roll <gift number|name>")
	}
	if s.gifts == nil {
		v, err := s.ctl.Prepare(ctx, s.current)
		if err != nil {
			return err
		}
		_, s.gifts = s.term.render.RenderView(v)
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(s.gifts) {
			return fmt.Errorf("no gift numbered %d", n)
		}
		_, err := s.ctl.RollGift(ctx, s.current, s.gifts[n-1].ID)
		return err
	}
	for _, g := range s.gifts {
		if strings.EqualFold(g.Name, arg) {
			_, err := s.ctl.RollGift(ctx, s.current, g.ID)
			return err
		}
	}
	return fmt.Errorf("%w: %q", sheet.ErrGiftNotFound, arg)
}

func (s *Session) rollExpr(expr string) error {
	res, err := s.dice.RollExpr(strings.TrimSpace(expr))
	if err != nil {
		return err
	}
	return s.term.WriteLine(res.String())
}

func (s *Session) shift(ctx context.Context, args []string) error {
	f, err := formArg(args)
	if err != nil {
		return err
	}
	out, err := s.ctl.ShiftForm(ctx, s.current, f)
	if err != nil {
		return err
	}
	if !out.Shifted && out.Roll != nil {
		if err := s.term.WriteLine(fmt.Sprintf("The shift to %s fails.", f.DisplayName())); err != nil {
			return err
		}
	}
	return s.then(ctx, nil)
}

// learn parses: learn <type> <level> <dice1> <dice2> [skill] [macro:<id>] <name...>.
// A renown die is written renown:<key>.
func (s *Session) learn(ctx context.Context, pr command.ParseResult) error {
	const usage = "usage: learn <type> <level> <dice1> <dice2> [skill] [macro:<id>] <name...>"
	if len(pr.Args) < 5 {
		return errors.New(usage)
	}
	level, err := strconv.Atoi(pr.Args[1])
	if err != nil {
		return errors.New(usage)
	}
	g := gift.Gift{GiftType: strings.ToLower(pr.Args[0]), Level: level}
	g.Dice1, g.Renown = dieArg(pr.Args[2], g.Renown)
	g.Dice2, g.Renown = dieArg(pr.Args[3], g.Renown)

	nameAt := 4
	if strings.EqualFold(pr.Args[nameAt], "skill") {
		g.Skill = true
		nameAt++
	}
	if nameAt < len(pr.Args) {
		if key, id, ok := strings.Cut(pr.Args[nameAt], ":"); ok && strings.EqualFold(key, "macro") && id != "" {
			g.MacroID = id
			nameAt++
		}
	}
	g.Name = pr.Rest(nameAt)
	if g.Name == "" {
		return errors.New(usage)
	}
	learned, err := s.ctl.LearnGift(ctx, s.current, g)
	if err != nil {
		return err
	}
	s.gifts = nil
	return s.term.WriteLine(fmt.Sprintf("Learned %s.", learned.Name))
}

func dieArg(arg, renown string) (string, string) {
	key, rest, ok := strings.Cut(strings.ToLower(arg), ":")
	if ok && key == gift.RenownTrait {
		return gift.RenownTrait, rest
	}
	return key, renown
}

func formArg(args []string) (character.Form, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: <command> <homid|glabro|crinos|hispo|lupus>")
	}
	f, ok := character.LookupForm(args[0])
	if !ok {
		return 0, fmt.Errorf("unknown form %q", args[0])
	}
	return f, nil
}

func oneInt(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: " + usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.New("usage: " + usage)
	}
	return n, nil
}
