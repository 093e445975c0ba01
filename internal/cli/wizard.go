package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/farmquest/internal/cli/formatter"
	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// farmquestHuhTheme returns a huh theme using the formatter palette.
func farmquestHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// onboardingAnswers is the raw wizard state. Numbers and dates stay strings
// until the form is submitted.
type onboardingAnswers struct {
	FullName    string
	Phone       string
	DateOfBirth string
	Village     string
	District    string
	State       string
	FarmSize    string
	FarmUnit    string
	Crops       []string
	Language    string
}

// toProfile converts validated answers into a domain profile.
func (a onboardingAnswers) toProfile() (domain.OnboardingProfile, error) {
	p := domain.OnboardingProfile{
		FullName:          strings.TrimSpace(a.FullName),
		Phone:             strings.TrimSpace(a.Phone),
		Village:           strings.TrimSpace(a.Village),
		District:          strings.TrimSpace(a.District),
		State:             a.State,
		FarmSizeUnit:      a.FarmUnit,
		PrimaryCrops:      a.Crops,
		PreferredLanguage: a.Language,
	}
	if a.FarmSize != "" {
		size, err := strconv.ParseFloat(a.FarmSize, 64)
		if err != nil {
			return p, fmt.Errorf("farm size: %w", err)
		}
		p.FarmSize = size
	}
	if a.DateOfBirth != "" {
		dob, err := time.Parse(domain.DateLayout, a.DateOfBirth)
		if err != nil {
			return p, fmt.Errorf("date of birth: use YYYY-MM-DD")
		}
		p.DateOfBirth = &dob
	}
	return p, nil
}

// onboardingForm builds the four-step wizard: about you, location, farm
// and language. Each group must be complete before the next.
func onboardingForm(a *onboardingAnswers) *huh.Form {
	if a.FarmUnit == "" {
		a.FarmUnit = "acres"
	}
	if a.Language == "" {
		a.Language = "english"
	}

	states := make([]huh.Option[string], len(domain.StateOptions))
	for i, s := range domain.StateOptions {
		states[i] = huh.NewOption(s, s)
	}
	crops := make([]huh.Option[string], len(domain.CropOptions))
	for i, c := range domain.CropOptions {
		crops[i] = huh.NewOption(c, c)
	}
	languages := make([]huh.Option[string], len(domain.LanguageOptions))
	for i, l := range domain.LanguageOptions {
		languages[i] = huh.NewOption(l[1], l[0])
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Full Name").Value(&a.FullName).Validate(validateRequired),
			huh.NewInput().Title("Phone").Placeholder("+91 98765 43210").Value(&a.Phone).Validate(validateRequired),
			huh.NewInput().Title("Date of Birth (YYYY-MM-DD, optional)").Value(&a.DateOfBirth).Validate(validateOptionalDate),
		).Title("About you"),
		huh.NewGroup(
			huh.NewInput().Title("Village").Value(&a.Village).Validate(validateRequired),
			huh.NewInput().Title("District").Value(&a.District).Validate(validateRequired),
			huh.NewSelect[string]().Title("State").Options(states...).Value(&a.State),
		).Title("Where you farm"),
		huh.NewGroup(
			huh.NewInput().Title("Farm Size").Placeholder("2.5").Value(&a.FarmSize).Validate(validatePositiveFloat),
			huh.NewSelect[string]().Title("Unit").Options(
				huh.NewOption("Acres", "acres"),
				huh.NewOption("Hectares", "hectares"),
				huh.NewOption("Bigha", "bigha"),
			).Value(&a.FarmUnit),
			huh.NewMultiSelect[string]().Title("Primary Crops").Options(crops...).Value(&a.Crops).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one crop")
					}
					return nil
				}),
		).Title("Your farm"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Preferred Language").Options(languages...).Value(&a.Language),
		).Title("Language"),
	).WithTheme(farmquestHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validatePositiveFloat requires a number greater than zero.
func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
