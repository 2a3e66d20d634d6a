package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitree/internal/models"
)

// HabitFormModel holds the raw values bound to the add-habit form.
type HabitFormModel struct {
	Title         string
	Description   string
	Category      string
	Frequency     string
	TrackingType  string
	TargetChecks  string
	TargetAmount  string
	Unit          string
	AllowMultiple bool
	Emoji         string
}

func NewHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Frequency:    "daily",
		TrackingType: string(models.TrackingCheck),
		TargetChecks: "1",
	}
}

// Input converts the form values into a HabitInput. Empty numeric fields
// fall back to the creation defaults.
func (f *HabitFormModel) Input() (models.HabitInput, error) {
	in := models.HabitInput{
		Title:               strings.TrimSpace(f.Title),
		Description:         strings.TrimSpace(f.Description),
		Category:            strings.TrimSpace(f.Category),
		Frequency:           f.Frequency,
		TrackingType:        models.TrackingType(f.TrackingType),
		Unit:                strings.TrimSpace(f.Unit),
		AllowMultipleChecks: f.AllowMultiple,
		Emoji:               strings.TrimSpace(f.Emoji),
	}
	if s := strings.TrimSpace(f.TargetChecks); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return models.HabitInput{}, fmt.Errorf("target checks must be a whole number")
		}
		in.TargetChecks = n
	}
	if s := strings.TrimSpace(f.TargetAmount); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.HabitInput{}, fmt.Errorf("target amount must be a number")
		}
		in.TargetAmount = &v
	}
	return in, nil
}

func validateWhole(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

func validatePositive(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

// NewHabitForm builds the add-habit form bound to fm.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Category").
				Value(&fm.Category),
			huh.NewInput().
				Title("Emoji").
				Placeholder("🌱").
				Value(&fm.Emoji),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", "daily"),
					huh.NewOption("Weekly", "weekly"),
					huh.NewOption("Monthly", "monthly"),
				).
				Value(&fm.Frequency),
			huh.NewSelect[string]().
				Title("Tracking").
				Options(
					huh.NewOption("Checks", string(models.TrackingCheck)),
					huh.NewOption("Count", string(models.TrackingCount)),
					huh.NewOption("Amount", string(models.TrackingAmount)),
				).
				Value(&fm.TrackingType),
			huh.NewInput().
				Title("Target Checks").
				Value(&fm.TargetChecks).
				Validate(validateWhole),
			huh.NewInput().
				Title("Target Amount").
				Description("Used by count and amount habits.").
				Value(&fm.TargetAmount).
				Validate(validatePositive),
			huh.NewInput().
				Title("Unit").
				Placeholder("glasses, km, pages").
				Value(&fm.Unit),
			huh.NewConfirm().
				Title("Allow extra checks once complete?").
				Value(&fm.AllowMultiple),
		),
	).WithTheme(huh.ThemeDracula())
}
