package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitbloom/internal/constants"
)

// NewHabitForm builds the add-habit form bound to fm.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	categories := make([]huh.Option[constants.Category], 0, len(constants.CategoryOrder))
	for _, c := range constants.CategoryOrder {
		info := constants.Categories[c]
		categories = append(categories, huh.NewOption(info.Icon+" "+info.Name, c))
	}

	plants := make([]huh.Option[constants.PlantType], 0, len(constants.PlantTypes))
	for _, p := range []constants.PlantType{constants.PlantFlower, constants.PlantTree, constants.PlantCactus, constants.PlantHerb} {
		info := constants.PlantTypes[p]
		plants = append(plants, huh.NewOption(info.Icon+" "+info.Name, p))
	}

	difficulties := make([]huh.Option[int], 0, constants.MaxDifficulty)
	for d := constants.MinDifficulty; d <= constants.MaxDifficulty; d++ {
		difficulties = append(difficulties, huh.NewOption(fmt.Sprintf("%d - %s", d, constants.DifficultyLevels[d].Name), d))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					if len(s) > 100 {
						return fmt.Errorf("habit name is too long")
					}
					return nil
				}),
			huh.NewInput().
				Title("Icon").
				Placeholder(constants.DefaultHabitIcon).
				Value(&fm.Icon),
			huh.NewSelect[constants.Category]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewSelect[constants.PlantType]().
				Title("Plant").
				Options(plants...).
				Value(&fm.PlantType),
			huh.NewSelect[int]().
				Title("Difficulty").
				Options(difficulties...).
				Value(&fm.Difficulty),
		),
	).WithTheme(huh.ThemeCharm())
}
