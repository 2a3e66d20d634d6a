package habits

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/tui"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with today's status."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit and its node tree."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit's settings."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
}

type HabitAddCmd struct {
	Title         string   `arg:"" optional:"" help:"Habit title."`
	Description   string   `help:"Longer description."`
	Category      string   `help:"Free-form category."`
	Frequency     string   `help:"daily, weekly or monthly." enum:"daily,weekly,monthly" default:"daily"`
	Type          string   `help:"Tracking type: check, count or amount." enum:"check,count,amount" default:"check"`
	TargetChecks  int      `help:"Checks needed to complete a day." name:"target-checks"`
	TargetAmount  *float64 `help:"Progress needed to complete a day (count and amount habits)." name:"target-amount"`
	Unit          string   `help:"Unit label for amounts."`
	AllowMultiple bool     `help:"Allow extra checks after completion." name:"allow-multiple"`
	Color         string   `help:"Hex color, e.g. #4F46E5."`
	Emoji         string   `help:"Display emoji."`
	Interactive   bool     `help:"Fill in the habit with an interactive form." short:"i"`
}

func (c *HabitAddCmd) input() (models.HabitInput, error) {
	if c.Interactive {
		fm := tui.NewHabitFormModel()
		fm.Title = c.Title
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			return models.HabitInput{}, err
		}
		return fm.Input()
	}
	if c.Title == "" {
		return models.HabitInput{}, fmt.Errorf("a title is required unless --interactive is set")
	}
	return models.HabitInput{
		Title:               c.Title,
		Description:         c.Description,
		Category:            c.Category,
		Frequency:           c.Frequency,
		TrackingType:        models.TrackingType(c.Type),
		TargetChecks:        c.TargetChecks,
		TargetAmount:        c.TargetAmount,
		Unit:                c.Unit,
		AllowMultipleChecks: c.AllowMultiple,
		Color:               c.Color,
		Emoji:               c.Emoji,
	}, nil
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	in, err := c.input()
	if err != nil {
		return err
	}

	h, err := ctx.Service.CreateHabit(ctx.Background(), ctx.User, in)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit %s %s (%s)\n", h.Emoji, cli.TitleStyle.Render(h.Title), h.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Service.GetHabits(ctx.Background(), ctx.User)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		ctx.Println("No habits found. Add one with 'habitree habit add'.")
		return nil
	}

	ctx.Println(cli.HabitTable(list, ctx.Service.Today(), ctx.Service.Stats))
	return nil
}

type HabitShowCmd struct {
	Habit   string `arg:"" help:"Habit id or title."`
	Entries bool   `help:"Also list the entries of today's node."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	ctx.Println(cli.NodeTree(h))

	stats := ctx.Service.Stats(h)
	ctx.Printf("\n%s %s  %s  frequency=%s\n",
		cli.MutedStyle.Render("tracking"), h.TrackingType,
		cli.MutedStyle.Render("target "+strconv.FormatFloat(h.Threshold(), 'f', -1, 64)+" "+h.Unit),
		h.Frequency)
	ctx.Printf("streak %d  best %d  completed %d/%d days (%d%%)\n",
		stats.CurrentStreak, stats.LongestStreak, stats.CompletedDays, stats.TotalDays, stats.CompletionRate)

	if c.Entries {
		node, ok := ctx.Service.TodayNode(h)
		if !ok {
			ctx.Println("No node for today.")
			return nil
		}
		if len(node.Checks) == 0 {
			ctx.Println("No entries for today.")
			return nil
		}
		ctx.Println(cli.EntryTable(node))
	}
	return nil
}

type HabitEditCmd struct {
	Habit         string   `arg:"" help:"Habit id or title."`
	Title         *string  `help:"New title."`
	Description   *string  `help:"New description."`
	Category      *string  `help:"New category."`
	Frequency     *string  `help:"daily, weekly or monthly."`
	Type          *string  `help:"Tracking type: check, count or amount."`
	TargetChecks  *int     `help:"Checks needed to complete a day." name:"target-checks"`
	TargetAmount  *float64 `help:"Progress needed to complete a day." name:"target-amount"`
	Unit          *string  `help:"Unit label."`
	AllowMultiple *bool    `help:"Allow extra checks after completion." name:"allow-multiple"`
	Color         *string  `help:"Hex color."`
	Emoji         *string  `help:"Display emoji."`
}

func (c *HabitEditCmd) update() models.HabitUpdate {
	u := models.HabitUpdate{
		Title:               c.Title,
		Description:         c.Description,
		Category:            c.Category,
		Frequency:           c.Frequency,
		TargetChecks:        c.TargetChecks,
		TargetAmount:        c.TargetAmount,
		Unit:                c.Unit,
		AllowMultipleChecks: c.AllowMultiple,
		Color:               c.Color,
		Emoji:               c.Emoji,
	}
	if c.Type != nil {
		t := models.TrackingType(*c.Type)
		u.TrackingType = &t
	}
	return u
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	u := c.update()
	if u.IsEmpty() {
		return fmt.Errorf("nothing to update; pass at least one flag")
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	updated, err := ctx.Service.UpdateHabit(ctx.Background(), ctx.User, h.ID, u)
	if err != nil {
		return err
	}

	ctx.Printf("Updated habit %s (%s)\n", cli.TitleStyle.Render(updated.Title), updated.ID)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its whole history?", h.Title)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if _, err := ctx.Service.DeleteHabit(ctx.Background(), ctx.User, h.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit %s\n", h.Title)
	return nil
}
