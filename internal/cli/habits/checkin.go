package habits

import (
	"fmt"

	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/constants"
	habitsvc "github.com/julianstephens/habitree/internal/habits"
	"github.com/julianstephens/habitree/internal/models"
)

type CheckCmd struct {
	Habit  string  `arg:"" help:"Habit id or title."`
	Node   string  `help:"Node id (default: today's node)."`
	Amount float64 `help:"Amount to record." default:"1"`
	Type   string  `help:"Check type label." default:"default"`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	nodeID, err := ctx.ResolveNode(h, c.Node)
	if err != nil {
		return err
	}

	checkType := c.Type
	if node, ok := h.FindNode(nodeID); ok && node.Status == models.NodeCompleted {
		if !h.AllowMultipleChecks {
			return fmt.Errorf("%q is already complete for %s; enable --allow-multiple to record extra checks", h.Title, node.Date)
		}
		if checkType == constants.DefaultCheckType {
			checkType = constants.ExtraCheckType
		}
	}

	updated, err := ctx.Service.AddCheckIn(ctx.Background(), ctx.User, h.ID, nodeID, checkType, c.Amount)
	if err != nil {
		return err
	}
	return printNode(ctx, updated, nodeID)
}

type ProgressCmd struct {
	Op     string  `arg:"" help:"Operation: add, subtract or set." enum:"add,subtract,set"`
	Habit  string  `arg:"" help:"Habit id or title."`
	Amount float64 `arg:"" help:"Amount to apply."`
	Node   string  `help:"Node id (default: today's node)."`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	op, err := habitsvc.ParseProgressOp(c.Op)
	if err != nil {
		return err
	}
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	nodeID, err := ctx.ResolveNode(h, c.Node)
	if err != nil {
		return err
	}

	updated, err := ctx.Service.AddProgressWithOperation(ctx.Background(), ctx.User, h.ID, nodeID, op, c.Amount)
	if err != nil {
		return err
	}
	return printNode(ctx, updated, nodeID)
}

type EntryCmd struct {
	Edit   EntryEditCmd   `cmd:"" help:"Change the amount of a progress entry."`
	Delete EntryDeleteCmd `cmd:"" help:"Remove a progress entry."`
}

type EntryEditCmd struct {
	Habit  string  `arg:"" help:"Habit id or title."`
	Entry  string  `arg:"" help:"Entry (check) id. Ignored for count and amount habits."`
	Amount float64 `arg:"" help:"New amount."`
	Node   string  `help:"Node id (default: today's node)."`
}

func (c *EntryEditCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	nodeID, err := ctx.ResolveNode(h, c.Node)
	if err != nil {
		return err
	}

	updated, err := ctx.Service.EditProgressEntry(ctx.Background(), ctx.User, h.ID, nodeID, c.Entry, c.Amount)
	if err != nil {
		return err
	}
	return printNode(ctx, updated, nodeID)
}

type EntryDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Entry string `arg:"" help:"Entry (check) id. Ignored for count and amount habits."`
	Node  string `help:"Node id (default: today's node)."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	nodeID, err := ctx.ResolveNode(h, c.Node)
	if err != nil {
		return err
	}

	updated, err := ctx.Service.DeleteProgressEntry(ctx.Background(), ctx.User, h.ID, nodeID, c.Entry)
	if err != nil {
		return err
	}
	return printNode(ctx, updated, nodeID)
}

func printNode(ctx *cli.Context, h models.Habit, nodeID string) error {
	node, ok := h.FindNode(nodeID)
	if !ok {
		return fmt.Errorf("node %s missing after update", nodeID)
	}
	ctx.Printf("%s %s %s  %s\n", cli.StatusMark(node.Status), h.Title, node.Date, cli.FormatProgress(h, *node))
	return nil
}
