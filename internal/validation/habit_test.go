package validation

import (
	"errors"
	"testing"

	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestValidateHabitInput(t *testing.T) {
	tests := []struct {
		name      string
		input     models.HabitInput
		wantField string
	}{
		{"minimal", models.HabitInput{Title: "Water"}, ""},
		{"blank title", models.HabitInput{Title: "   "}, "title"},
		{"unknown tracking type", models.HabitInput{Title: "Water", TrackingType: "boolean"}, "trackingType"},
		{"negative target checks", models.HabitInput{Title: "Water", TargetChecks: -1}, "targetChecks"},
		{"amount without target", models.HabitInput{Title: "Run", TrackingType: models.TrackingAmount}, "targetAmount"},
		{"amount with target", models.HabitInput{Title: "Run", TrackingType: models.TrackingAmount, TargetAmount: floatPtr(5)}, ""},
		{"zero target amount", models.HabitInput{Title: "Run", TrackingType: models.TrackingAmount, TargetAmount: floatPtr(0)}, "targetAmount"},
		{"bad color", models.HabitInput{Title: "Water", Color: "blue"}, "color"},
		{"bad frequency", models.HabitInput{Title: "Water", Frequency: "hourly"}, "frequency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHabitInput(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var ve *apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q (%v)", ve.Field, tt.wantField, err)
			}
		})
	}
}

func TestValidateHabitUpdate(t *testing.T) {
	if err := ValidateHabitUpdate(models.HabitUpdate{}); !apperrors.IsValidation(err) {
		t.Errorf("empty update should fail validation, got %v", err)
	}
	if err := ValidateHabitUpdate(models.HabitUpdate{Title: strPtr("")}); !apperrors.IsValidation(err) {
		t.Errorf("blank title should fail validation, got %v", err)
	}
	bad := models.TrackingType("boolean")
	if err := ValidateHabitUpdate(models.HabitUpdate{TrackingType: &bad}); !apperrors.IsValidation(err) {
		t.Errorf("unknown tracking type should fail validation, got %v", err)
	}
	if err := ValidateHabitUpdate(models.HabitUpdate{Color: strPtr("#112233")}); err != nil {
		t.Errorf("valid update rejected: %v", err)
	}
}

func TestValidateHabit(t *testing.T) {
	good := models.Habit{
		TrackingType: models.TrackingCheck,
		TargetChecks: 1,
		TreeNodes:    []models.TreeNode{{ID: "n", Date: "2026-01-01"}},
	}
	if err := ValidateHabit(good); err != nil {
		t.Fatalf("valid habit rejected: %v", err)
	}

	noTarget := good
	noTarget.TargetChecks = 0
	if err := ValidateHabit(noTarget); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for zero targetChecks, got %v", err)
	}

	amount := good
	amount.TrackingType = models.TrackingAmount
	if err := ValidateHabit(amount); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for amount habit without target, got %v", err)
	}

	badDate := good
	badDate.TreeNodes = []models.TreeNode{{ID: "n", Date: "01/01/2026"}}
	if err := ValidateHabit(badDate); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for malformed date, got %v", err)
	}
}
