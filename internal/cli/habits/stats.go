package habits

import (
	"encoding/json"

	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/streak"
)

type StatsCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or title (default: all habits)."`
	JSON  bool   `help:"Print the statistics as JSON."`
}

type habitStats struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	streak.Summary
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	var list []models.Habit
	if c.Habit != "" {
		h, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		list = []models.Habit{h}
	} else {
		all, err := ctx.Service.GetHabits(ctx.Background(), ctx.User)
		if err != nil {
			return err
		}
		list = all
	}

	out := make([]habitStats, len(list))
	for i, h := range list {
		out[i] = habitStats{ID: h.ID, Title: h.Title, Summary: ctx.Service.Stats(h)}
	}

	if c.JSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		ctx.Println(string(data))
		return nil
	}

	if len(out) == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	for _, s := range out {
		ctx.Printf("%s  streak %d  best %d  %d/%d days (%d%%)\n",
			cli.TitleStyle.Render(s.Title), s.CurrentStreak, s.LongestStreak,
			s.CompletedDays, s.TotalDays, s.CompletionRate)
	}
	return nil
}
