package sheet_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/dice"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/modifier"
	"github.com/cory-johannsen/wta/internal/game/rage"
	"github.com/cory-johannsen/wta/internal/game/sheet"
)

// scriptedPrompter answers dialogs from a queue and records what it was shown.
type scriptedPrompter struct {
	answers []sheet.Response
	shown   []sheet.Dialog
}

func (p *scriptedPrompter) Prompt(_ context.Context, d sheet.Dialog) (sheet.Response, error) {
	p.shown = append(p.shown, d)
	if len(p.answers) == 0 {
		return sheet.Response{}, nil
	}
	r := p.answers[0]
	p.answers = p.answers[1:]
	return r, nil
}

type recordingChat struct {
	posts []sheet.Message
}

func (c *recordingChat) Post(_ context.Context, m sheet.Message) error {
	c.posts = append(c.posts, m)
	return nil
}

// faceRoller rolls every die with the same face and records the pools.
type faceRoller struct {
	face  int
	pools []dice.Pool
}

func (r *faceRoller) RollPool(title string, p dice.Pool) dice.PoolResult {
	r.pools = append(r.pools, p)
	res := dice.PoolResult{Title: title}
	for i := 0; i < p.Basic; i++ {
		res.Basic = append(res.Basic, dice.Die{Value: r.face})
	}
	for i := 0; i < p.Advanced; i++ {
		res.Advanced = append(res.Advanced, dice.Die{Value: r.face, Advanced: true})
	}
	return res
}

type fixture struct {
	ctl    *sheet.Controller
	store  *sheet.MemoryStore
	prompt *scriptedPrompter
	chat   *recordingChat
	roller *faceRoller
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T, automated bool, face int) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	catalog, err := gift.NewCatalog([]gift.TypeDef{
		{Key: "ragabash", Name: "Ragabash", Description: "New moon trickster."},
		{Key: "galliard", Name: "Galliard"},
	})
	require.NoError(t, err)
	f := &fixture{
		store:  sheet.NewMemoryStore(),
		prompt: &scriptedPrompter{},
		chat:   &recordingChat{},
		roller: &faceRoller{face: face},
		logs:   logs,
	}
	f.ctl = sheet.NewController(sheet.Deps{
		Store:    f.store,
		Roller:   f.roller,
		Prompter: f.prompt,
		Chat:     f.chat,
		Bonuses:  modifier.None{},
		Rage:     rage.NewMachine(rage.Config{AutomatedRage: automated}, logger),
		Catalog:  catalog,
		Logger:   logger,
	})
	return f
}

func (f *fixture) seed(t *testing.T, mutate func(a *character.Actor)) uuid.UUID {
	t.Helper()
	a := character.NewActor("Ember-Eye")
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, f.store.Save(context.Background(), a))
	return a.ID
}

func (f *fixture) actor(t *testing.T, id uuid.UUID) *character.Actor {
	t.Helper()
	a, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	return a
}

func TestPrepare_GroupsGiftsAndForms(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, func(a *character.Actor) {
		a.ShowGiftType("galliard")
		a.Items = []gift.Gift{
			{ID: uuid.New(), Name: "Z", GiftType: "ragabash", Level: 1},
			{ID: uuid.New(), Name: "Rite of Passage", GiftType: gift.RiteType},
		}
	})

	v, err := f.ctl.Prepare(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, v.Gifts.Groups, 2)
	assert.True(t, v.Gifts.Groups[0].Visible, "ragabash has a gift")
	assert.True(t, v.Gifts.Groups[1].Visible, "galliard was added")
	assert.Len(t, v.Gifts.Rites, 1)
	assert.Len(t, v.Forms, 5)
	assert.True(t, v.CanShift[character.FormCrinos])
	assert.Empty(t, f.prompt.shown)
}

func TestPrepare_ZeroRageInCrinosPromptsRestingForm(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, func(a *character.Actor) {
		a.Rage = 0
		a.ActiveForm = character.FormCrinos
	})
	f.prompt.answers = []sheet.Response{{Button: "lupus"}}

	v, err := f.ctl.Prepare(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, f.prompt.shown, 1)
	assert.Equal(t, "Lost the Wolf", f.prompt.shown[0].Title)
	assert.False(t, v.CanShift[character.FormCrinos])

	a := f.actor(t, id)
	assert.True(t, a.LostTheWolf)
	assert.Equal(t, character.FormLupus, a.ActiveForm)

	_, err = f.ctl.Prepare(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, f.prompt.shown, 1, "no second prompt")
}

func TestPrepare_DismissedRestingPromptIsNotRepeated(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, func(a *character.Actor) {
		a.Rage = 0
		a.ActiveForm = character.FormCrinos
	})

	_, err := f.ctl.Prepare(context.Background(), id)
	require.NoError(t, err)
	_, err = f.ctl.Prepare(context.Background(), id)
	require.NoError(t, err)

	assert.Len(t, f.prompt.shown, 1)
	a := f.actor(t, id)
	assert.True(t, a.LostTheWolf)
	assert.Equal(t, character.FormCrinos, a.ActiveForm, "dismissal keeps the form")
	assert.Equal(t, 1, f.logs.FilterMessage("resting form prompt dismissed").Len())

	// Lupus and homid stay reachable while the wolf is lost.
	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormLupus)
	require.NoError(t, err)
	assert.True(t, out.Shifted)
	assert.Equal(t, character.FormLupus, f.actor(t, id).ActiveForm)
}

func TestPrepare_ClearsStaleLostTheWolf(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, func(a *character.Actor) {
		a.Rage = 2
		a.LostTheWolf = true
	})
	_, err := f.ctl.Prepare(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, f.actor(t, id).LostTheWolf)
}

func TestPrepare_UnknownActor(t *testing.T) {
	f := newFixture(t, true, 6)
	_, err := f.ctl.Prepare(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sheet.ErrActorNotFound)
}

func TestRollGift_ComposesPoolWithRage(t *testing.T) {
	f := newFixture(t, true, 7)
	g := gift.Gift{ID: uuid.New(), Name: "Razor Claws", GiftType: "ragabash", Dice1: "strength", Dice2: "brawl", Skill: true}
	id := f.seed(t, func(a *character.Actor) {
		a.Rage = 4
		a.Abilities["strength"] = 3
		a.Skills["brawl"] = 2
		a.Items = []gift.Gift{g}
	})

	out, err := f.ctl.RollGift(context.Background(), id, g.ID)
	require.NoError(t, err)
	assert.Equal(t, dice.Pool{Basic: 1, Advanced: 4}, out.Request.Pool)
	assert.Equal(t, 5, out.Result.Successes())
	require.Len(t, f.chat.posts, 1)
	assert.Equal(t, "Razor Claws", f.chat.posts[0].Title)
	assert.Equal(t, 4, f.actor(t, id).Rage, "gift rolls do not spend rage")
}

func TestRollGift_PostsMacro(t *testing.T) {
	f := newFixture(t, true, 6)
	g := gift.Gift{ID: uuid.New(), Name: "Sense the Unnatural", GiftType: "ragabash", Dice1: "wits", Dice2: "awareness", MacroID: "sense-wyrm"}
	id := f.seed(t, func(a *character.Actor) { a.Items = []gift.Gift{g} })

	_, err := f.ctl.RollGift(context.Background(), id, g.ID)
	require.NoError(t, err)
	require.Len(t, f.chat.posts, 1)
	assert.Equal(t, "sense-wyrm", f.chat.posts[0].Macro)

	_, err = f.ctl.RollHarano(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, f.chat.posts[1].Macro)
}

func TestRollGift_NotOwned(t *testing.T) {
	f := newFixture(t, true, 7)
	id := f.seed(t, nil)
	_, err := f.ctl.RollGift(context.Background(), id, uuid.New())
	assert.ErrorIs(t, err, sheet.ErrGiftNotFound)
	assert.Empty(t, f.chat.posts)
}

func TestRollBalance_AtLeastOneDie(t *testing.T) {
	f := newFixture(t, true, 3)
	id := f.seed(t, nil)

	out, err := f.ctl.RollHarano(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, dice.Pool{Basic: 1}, out.Request.Pool)

	require.NoError(t, f.store.Save(context.Background(), func() *character.Actor {
		a := f.actor(t, id)
		a.Balance = character.Balance{Harano: 2, Hauglosk: 3}
		return a
	}()))
	out, err = f.ctl.RollHauglosk(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, dice.Pool{Basic: 5}, out.Request.Pool)
	assert.Equal(t, "Hauglosk Test", out.Result.Title)
}

func TestFrenzy_EndInCrinosPrompts(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, func(a *character.Actor) { a.ActiveForm = character.FormCrinos })
	f.prompt.answers = []sheet.Response{{Button: "homid"}}

	require.NoError(t, f.ctl.BeginFrenzy(context.Background(), id))
	a := f.actor(t, id)
	assert.Equal(t, character.MaxRage, a.Rage)
	assert.True(t, a.FrenzyActive)

	require.NoError(t, f.ctl.EndFrenzy(context.Background(), id))
	a = f.actor(t, id)
	assert.Equal(t, 0, a.Rage)
	assert.False(t, a.FrenzyActive)
	assert.True(t, a.LostTheWolf)
	assert.Equal(t, character.FormHomid, a.ActiveForm)
	assert.Len(t, f.prompt.shown, 1)
}

func TestShiftForm_MundaneIsDirect(t *testing.T) {
	f := newFixture(t, true, 1)
	id := f.seed(t, func(a *character.Actor) { a.Rage = 0 })

	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormLupus)
	require.NoError(t, err)
	assert.Equal(t, rage.ShiftDirect, out.Decision)
	assert.True(t, out.Shifted)
	assert.Empty(t, f.roller.pools)
	require.Len(t, f.chat.posts, 1)
	assert.Equal(t, "Lupus", f.chat.posts[0].Title)
	assert.Equal(t, character.FormLupus, f.actor(t, id).ActiveForm)
}

func TestShiftForm_SuccessfulRageCheck(t *testing.T) {
	f := newFixture(t, true, 8)
	id := f.seed(t, func(a *character.Actor) { a.Rage = 3 })

	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormCrinos)
	require.NoError(t, err)
	assert.Equal(t, rage.ShiftRoll, out.Decision)
	assert.True(t, out.Shifted)
	require.NotNil(t, out.Roll)
	assert.Equal(t, []dice.Pool{{Advanced: 2}}, f.roller.pools)

	a := f.actor(t, id)
	assert.Equal(t, character.FormCrinos, a.ActiveForm)
	assert.Equal(t, 3, a.Rage)
}

func TestShiftForm_FailedRageCheckSpendsRage(t *testing.T) {
	f := newFixture(t, true, 2)
	id := f.seed(t, func(a *character.Actor) { a.Rage = 3 })

	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormCrinos)
	require.NoError(t, err)
	assert.True(t, out.Shifted, "one rage left")
	a := f.actor(t, id)
	assert.Equal(t, 1, a.Rage)
	assert.Equal(t, character.FormCrinos, a.ActiveForm)
}

func TestShiftForm_RunsOutOfRageInGlabro(t *testing.T) {
	f := newFixture(t, true, 1)
	id := f.seed(t, func(a *character.Actor) {
		a.Rage = 2
		a.ActiveForm = character.FormGlabro
	})
	f.prompt.answers = []sheet.Response{{Button: "homid"}}

	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormCrinos)
	require.NoError(t, err)
	assert.False(t, out.Shifted)
	a := f.actor(t, id)
	assert.Equal(t, 0, a.Rage)
	assert.True(t, a.LostTheWolf)
	assert.Equal(t, character.FormHomid, a.ActiveForm)
}

func TestShiftForm_RefusedThenCancelled(t *testing.T) {
	f := newFixture(t, true, 8)
	id := f.seed(t, func(a *character.Actor) { a.Rage = 0 })
	f.prompt.answers = []sheet.Response{{Button: sheet.ButtonCancel}}

	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormHispo)
	require.NoError(t, err)
	assert.Equal(t, rage.ShiftRefused, out.Decision)
	assert.False(t, out.Shifted)
	assert.Equal(t, "Can't Transform: Lost the Wolf", f.prompt.shown[0].Title)
	assert.Equal(t, character.FormHomid, f.actor(t, id).ActiveForm)
}

func TestShiftForm_RefusedThenForced(t *testing.T) {
	f := newFixture(t, true, 8)
	id := f.seed(t, func(a *character.Actor) { a.Rage = 0 })
	f.prompt.answers = []sheet.Response{{Button: sheet.ButtonSubmit}, {Button: "homid"}}

	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormHispo)
	require.NoError(t, err)
	assert.True(t, out.Forced)
	assert.Empty(t, f.roller.pools)
	a := f.actor(t, id)
	assert.True(t, a.LostTheWolf)
	assert.Equal(t, 0, a.Rage)
}

func TestShiftForm_ManualRageAlwaysShifts(t *testing.T) {
	f := newFixture(t, false, 1)
	id := f.seed(t, func(a *character.Actor) { a.Rage = 0 })

	out, err := f.ctl.ShiftForm(context.Background(), id, character.FormCrinos)
	require.NoError(t, err)
	assert.Equal(t, rage.ShiftRoll, out.Decision)
	assert.True(t, out.Shifted)
	a := f.actor(t, id)
	assert.Equal(t, character.FormCrinos, a.ActiveForm)
	assert.False(t, a.LostTheWolf)
	assert.Empty(t, f.prompt.shown)
}

func TestAddGiftType(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, nil)
	f.prompt.answers = []sheet.Response{{Button: sheet.ButtonSubmit, Value: "galliard"}}

	key, err := f.ctl.AddGiftType(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "galliard", key)
	require.Len(t, f.prompt.shown[0].Options, 2)
	assert.Equal(t, []string{"galliard"}, f.actor(t, id).VisibleGiftTypes)

	f.prompt.answers = []sheet.Response{{Button: sheet.ButtonCancel, Value: "ragabash"}}
	key, err = f.ctl.AddGiftType(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Equal(t, []string{"galliard"}, f.actor(t, id).VisibleGiftTypes)
}

func TestEditForm(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, nil)
	f.prompt.answers = []sheet.Response{{Button: sheet.ButtonSubmit, Value: "Towering and terrible."}}

	changed, err := f.ctl.EditForm(context.Background(), id, character.FormCrinos)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, sheet.InputText, f.prompt.shown[0].Input)
	assert.Equal(t, "Towering and terrible.", f.actor(t, id).Forms[character.FormCrinos].Description)

	require.NoError(t, f.ctl.FormToChat(context.Background(), id, character.FormCrinos))
	require.Len(t, f.chat.posts, 1)
	assert.Equal(t, "Towering and terrible.", f.chat.posts[0].Body)
}

func TestGiftToChat(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, nil)

	require.NoError(t, f.ctl.GiftToChat(context.Background(), id, "ragabash"))
	require.NoError(t, f.ctl.GiftToChat(context.Background(), id, "homebrew"))
	require.Len(t, f.chat.posts, 2)
	assert.Equal(t, "Ragabash", f.chat.posts[0].Title)
	assert.Equal(t, "New moon trickster.", f.chat.posts[0].Body)
	assert.Equal(t, "homebrew", f.chat.posts[1].Title)
}

func TestLearnGift_AssignsID(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, nil)

	g, err := f.ctl.LearnGift(context.Background(), id, gift.Gift{Name: "Eyes of the Cat", GiftType: "ragabash"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, g.ID)
	_, ok := f.actor(t, id).Item(g.ID)
	assert.True(t, ok)
	assert.NotZero(t, f.logs.FilterMessage("gift learned").Len())
}

func TestPropertyController_RageInvariantHolds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t, rapid.Bool().Draw(rt, "automated"), rapid.IntRange(1, 10).Draw(rt, "face"))
		id := f.seed(t, func(a *character.Actor) {
			a.Rage = rapid.IntRange(0, character.MaxRage).Draw(rt, "rage")
			a.ActiveForm = rapid.SampledFrom(character.AllForms()).Draw(rt, "form")
		})
		ctx := context.Background()
		for i, n := 0, rapid.IntRange(1, 10).Draw(rt, "steps"); i < n; i++ {
			f.prompt.answers = []sheet.Response{{Button: rapid.SampledFrom([]string{"", "homid", "lupus", sheet.ButtonSubmit}).Draw(rt, "answer")}}
			var err error
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				_, err = f.ctl.ShiftForm(ctx, id, rapid.SampledFrom(character.AllForms()).Draw(rt, "target"))
			case 1:
				err = f.ctl.BeginFrenzy(ctx, id)
			case 2:
				err = f.ctl.EndFrenzy(ctx, id)
			case 3:
				err = f.ctl.AdjustRage(ctx, id, rapid.IntRange(-5, 5).Draw(rt, "delta"))
			case 4:
				_, err = f.ctl.Prepare(ctx, id)
			}
			if err != nil {
				rt.Fatalf("step %d: %v", i, err)
			}
			a := f.actor(t, id)
			if a.Rage < 0 || a.Rage > character.MaxRage {
				rt.Fatalf("rage %d out of range", a.Rage)
			}
			if a.LostTheWolf && a.Rage != 0 {
				rt.Fatalf("lost the wolf with rage %d", a.Rage)
			}
		}
	})
}

func TestSetRating_FeedsGiftPool(t *testing.T) {
	f := newFixture(t, true, 6)
	g := gift.Gift{ID: uuid.New(), Name: "Luna's Armor", GiftType: "galliard", Dice1: gift.RenownTrait, Dice2: "stamina", Renown: "honor"}
	id := f.seed(t, func(a *character.Actor) {
		a.Rage = 0
		a.Items = []gift.Gift{g}
	})
	ctx := context.Background()
	require.NoError(t, f.ctl.SetRating(ctx, id, character.TraitRenown, "honor", 2))
	require.NoError(t, f.ctl.SetRating(ctx, id, character.TraitAbility, "stamina", 3))
	assert.Error(t, f.ctl.SetRating(ctx, id, character.TraitAbility, "stamina", -1))

	out, err := f.ctl.RollGift(ctx, id, g.ID)
	require.NoError(t, err)
	assert.Equal(t, dice.Pool{Basic: 5}, out.Request.Pool)
}

func TestSetBalance(t *testing.T) {
	f := newFixture(t, true, 6)
	id := f.seed(t, nil)
	require.NoError(t, f.ctl.SetBalance(context.Background(), id, character.Balance{Harano: 2}))
	assert.Equal(t, 2, f.actor(t, id).Balance.Harano)
	assert.Error(t, f.ctl.SetBalance(context.Background(), id, character.Balance{Hauglosk: -1}))
}
