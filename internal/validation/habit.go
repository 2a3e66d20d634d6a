package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/utils"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json field names so messages match the stored document
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateHabitInput checks a new habit's fields. Empty optional fields are
// allowed; defaults are applied by the service afterwards.
func ValidateHabitInput(in models.HabitInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.Validation("title", "must not be blank")
	}
	if err := validate.Struct(in); err != nil {
		return translate(err)
	}
	if in.TrackingType == models.TrackingAmount && in.TargetAmount == nil {
		return apperrors.Validation("targetAmount", "is required for amount habits")
	}
	return nil
}

// ValidateHabitUpdate checks a patch before it is merged.
func ValidateHabitUpdate(u models.HabitUpdate) error {
	if u.IsEmpty() {
		return apperrors.Validation("", "update carries no fields")
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return apperrors.Validation("title", "must not be blank")
	}
	if err := validate.Struct(u); err != nil {
		return translate(err)
	}
	return nil
}

// ValidateHabit checks a fully-populated habit, as loaded from a store or
// after a patch is merged.
func ValidateHabit(h models.Habit) error {
	if !h.TrackingType.Valid() {
		return apperrors.Validation("trackingType", fmt.Sprintf("unknown value %q", h.TrackingType))
	}
	if h.TargetChecks < 1 {
		return apperrors.Validation("targetChecks", "must be at least 1")
	}
	if h.TrackingType == models.TrackingAmount && (h.TargetAmount == nil || *h.TargetAmount <= 0) {
		return apperrors.Validation("targetAmount", "must be positive for amount habits")
	}
	for _, n := range h.TreeNodes {
		if !utils.ValidateDate(n.Date) {
			return apperrors.Validation("treeNodes.date", fmt.Sprintf("node %s has malformed date %q", n.ID, n.Date))
		}
	}
	return nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation("", err.Error())
	}
	fe := verrs[0]
	return apperrors.Validation(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("must be %s %s", map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	case "hexcolor":
		return "must be a hex color such as #4F46E5"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
