package habits

import (
	"github.com/julianstephens/habitree/internal/cli"
)

type BranchCmd struct {
	Create BranchCreateCmd `cmd:"" help:"Start a new attempt for today from an existing node."`
	Reset  BranchResetCmd  `cmd:"" help:"Clear a node's progress and make it active again."`
}

type BranchCreateCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	From  string `help:"Parent node id (default: today's node)."`
}

func (c *BranchCreateCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	parentID, err := ctx.ResolveNode(h, c.From)
	if err != nil {
		return err
	}

	updated, err := ctx.Service.CreateBranch(ctx.Background(), ctx.User, h.ID, parentID)
	if err != nil {
		return err
	}

	branch := updated.TreeNodes[len(updated.TreeNodes)-1]
	ctx.Printf("Created branch %s from %s\n", branch.ID, parentID)
	return nil
}

type BranchResetCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Node  string `arg:"" help:"Node id to reset."`
}

func (c *BranchResetCmd) Run(ctx *cli.Context) error {
	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	updated, err := ctx.Service.ResetBranch(ctx.Background(), ctx.User, h.ID, c.Node)
	if err != nil {
		return err
	}
	return printNode(ctx, updated, c.Node)
}
