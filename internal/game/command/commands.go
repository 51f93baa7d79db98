// Package command provides the command registry, parser, and built-in sheet command definitions.
package command

// Categories for organizing commands.
const (
	CategoryActor  = "actor"
	CategoryRoll   = "roll"
	CategoryRage   = "rage"
	CategoryForm   = "form"
	CategoryGift   = "gift"
	CategorySystem = "system"
)

// Handler identifiers mapping commands to sheet actions.
const (
	HandlerNew      = "new"
	HandlerLoad     = "load"
	HandlerList     = "list"
	HandlerShow     = "show"
	HandlerSet      = "set"
	HandlerRoll     = "roll"
	HandlerDice     = "dice"
	HandlerHarano   = "harano"
	HandlerHauglosk = "hauglosk"
	HandlerFrenzy   = "frenzy"
	HandlerCalm     = "calm"
	HandlerRage     = "rage"
	HandlerShift    = "shift"
	HandlerForm     = "form"
	HandlerEditForm = "editform"
	HandlerAddGift  = "addgift"
	HandlerLearn    = "learn"
	HandlerGiftInfo = "giftinfo"
	HandlerQuit     = "quit"
	HandlerHelp     = "help"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for the help listing.
	Category string
	// Handler names the sheet action the command runs.
	Handler string
}

// BuiltinCommands returns all built-in sheet commands.
func BuiltinCommands() []Command {
	return []Command{
		// Actor commands
		{Name: "new", Aliases: []string{"create"}, Help: "Create a werewolf (new <name>)", Category: CategoryActor, Handler: HandlerNew},
		{Name: "load", Aliases: []string{"open"}, Help: "Open a stored werewolf (load <name|id>)", Category: CategoryActor, Handler: HandlerLoad},
		{Name: "list", Aliases: []string{"ls"}, Help: "List stored werewolves", Category: CategoryActor, Handler: HandlerList},
		{Name: "show", Aliases: []string{"sheet", "l"}, Help: "Show the open sheet", Category: CategoryActor, Handler: HandlerShow},
		{Name: "set", Aliases: nil, Help: "Set a trait (set <ability|skill|renown|harano|hauglosk> [key] <value>)", Category: CategoryActor, Handler: HandlerSet},

		// Roll commands
		{Name: "roll", Aliases: []string{"r"}, Help: "Roll a gift (roll <gift number|name>)", Category: CategoryRoll, Handler: HandlerRoll},
		{Name: "dice", Aliases: []string{"d"}, Help: "Roll a raw pool (dice 4b2r)", Category: CategoryRoll, Handler: HandlerDice},
		{Name: "harano", Aliases: nil, Help: "Roll a Harano test", Category: CategoryRoll, Handler: HandlerHarano},
		{Name: "hauglosk", Aliases: nil, Help: "Roll a Hauglosk test", Category: CategoryRoll, Handler: HandlerHauglosk},

		// Rage commands
		{Name: "frenzy", Aliases: nil, Help: "Enter frenzy at full rage", Category: CategoryRage, Handler: HandlerFrenzy},
		{Name: "calm", Aliases: nil, Help: "End frenzy and empty rage", Category: CategoryRage, Handler: HandlerCalm},
		{Name: "rage", Aliases: nil, Help: "Adjust rage (rage +1, rage -2)", Category: CategoryRage, Handler: HandlerRage},

		// Form commands
		{Name: "shift", Aliases: []string{"sh"}, Help: "Shift form (shift <homid|glabro|crinos|hispo|lupus>)", Category: CategoryForm, Handler: HandlerShift},
		{Name: "form", Aliases: nil, Help: "Post a form card to chat (form <form>)", Category: CategoryForm, Handler: HandlerForm},
		{Name: "editform", Aliases: nil, Help: "Edit a form description (editform <form>)", Category: CategoryForm, Handler: HandlerEditForm},

		// Gift commands
		{Name: "addgift", Aliases: nil, Help: "Show a gift type on the sheet", Category: CategoryGift, Handler: HandlerAddGift},
		{Name: "learn", Aliases: nil, Help: "Learn a gift (learn <type> <level> <dice1> <dice2> [skill] <name...>)", Category: CategoryGift, Handler: HandlerLearn},
		{Name: "giftinfo", Aliases: []string{"gi"}, Help: "Post a gift type description to chat (giftinfo <type>)", Category: CategoryGift, Handler: HandlerGiftInfo},

		// System commands
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the sheet", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
