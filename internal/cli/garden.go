package cli

import (
	"strconv"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/garden"
)

type GardenCmd struct {
	Show    GardenShowCmd    `cmd:"" help:"Show the whole garden." default:"1"`
	Plant   GardenPlantCmd   `cmd:"" help:"Show one plant in detail."`
	Water   GardenWaterCmd   `cmd:"" help:"Water a plant without checking in."`
	Decay   GardenDecayCmd   `cmd:"" help:"Apply health decay to thirsty plants now."`
	Wilting GardenWiltingCmd `cmd:"" help:"List plants that need attention."`
}

type GardenShowCmd struct {
	Category string `help:"Only show one category."`
	JSON     bool   `name:"json" help:"Print as JSON."`
}

func (c *GardenShowCmd) Run(ctx *Context) error {
	if err := checkKinds(&c.Category, nil); err != nil {
		return err
	}
	g := ctx.Garden()
	if c.Category != "" {
		plants, err := g.ByCategory(ctx.userID(), constants.Category(c.Category))
		if err != nil {
			return err
		}
		if c.JSON {
			return ctx.printJSON(nonNilPlants(plants))
		}
		printPlants(ctx, plants)
		return nil
	}

	ov, err := g.Overview(ctx.userID())
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.printJSON(ov)
	}
	if ov.TotalPlants == 0 {
		ctx.println("🌱 Your garden is empty. Plant a habit with: habitbloom habit add <name>")
		return nil
	}
	ctx.printf("🌻 Garden health %d%%  %s\n", ov.GardenHealth, bar(ov.GardenHealth, 20))
	ctx.printf("   %d plants, %d healthy, %d blooming\n\n", ov.TotalPlants, ov.HealthyPlants, ov.BloomingPlants)
	printPlants(ctx, ov.Plants)
	return nil
}

func printPlants(ctx *Context, plants []garden.PlantInfo) {
	if len(plants) == 0 {
		ctx.println("No plants here.")
		return
	}
	t := newTable("ID", "Habit", "Plant", "Stage", "Growth", "Health", "Streak", "Status")
	for _, p := range plants {
		t.Row(
			strconv.FormatInt(p.HabitID, 10),
			p.Icon+" "+p.Name,
			p.PlantIcon,
			p.StageName,
			strconv.Itoa(p.Growth),
			strconv.Itoa(p.Health),
			strconv.Itoa(p.CurrentStreak),
			plantStatus(p),
		)
	}
	ctx.println(t.String())
}

func plantStatus(p garden.PlantInfo) string {
	switch {
	case p.CompletedToday:
		return "watered today"
	case p.Health < constants.HealthyThreshold:
		return "wilting"
	case p.NeedsWater:
		return "thirsty"
	default:
		return "ok"
	}
}

func nonNilPlants(plants []garden.PlantInfo) []garden.PlantInfo {
	if plants == nil {
		return []garden.PlantInfo{}
	}
	return plants
}

type GardenPlantCmd struct {
	ID   int64 `arg:"" help:"Habit ID."`
	JSON bool  `name:"json" help:"Print as JSON."`
}

func (c *GardenPlantCmd) Run(ctx *Context) error {
	p, err := ctx.Garden().PlantDetail(c.ID)
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.printJSON(p)
	}

	ctx.printf("%s %s  %s %s\n\n", p.Icon, p.Name, p.PlantIcon, p.StageName)
	ctx.printf("  Growth  %3d  %s\n", p.Growth, bar(p.Growth, 20))
	ctx.printf("  Health  %3d  %s\n", p.Health, bar(p.Health, 20))
	ctx.printf("  Next stage: %d%%\n", p.NextStageProgress)
	ctx.printf("  Stages: ")
	for i, icon := range p.AllStages {
		if i+1 == p.Stage {
			ctx.printf("[%s] ", icon)
		} else {
			ctx.printf("%s ", icon)
		}
	}
	ctx.println()
	ctx.printf("  Streak: %d  Longest: %d  Total: %d\n", p.CurrentStreak, p.LongestStreak, p.TotalCompleted)
	if p.LastWatered != "" {
		ctx.printf("  Last watered: %s\n", p.LastWatered)
	} else {
		ctx.println("  Never watered")
	}
	ctx.printf("  Planted: %s\n", p.CreatedAt.Format(constants.DateFormat))
	return nil
}

type GardenWaterCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *GardenWaterCmd) Run(ctx *Context) error {
	p, err := ctx.Garden().WaterPlant(c.ID)
	if err != nil {
		return err
	}
	ctx.printf("💧 Watered %s %s: %s %s  growth %d  health %d\n", p.Icon, p.Name, p.PlantIcon, p.StageName, p.Growth, p.Health)
	return nil
}

type GardenDecayCmd struct{}

func (c *GardenDecayCmd) Run(ctx *Context) error {
	n, err := ctx.Garden().UpdateAllPlantsHealth(ctx.userID())
	if err != nil {
		return err
	}
	ctx.printf("✓ Health decay applied to %d plant(s)\n", n)
	return nil
}

type GardenWiltingCmd struct{}

func (c *GardenWiltingCmd) Run(ctx *Context) error {
	plants, err := ctx.Garden().WiltingPlants(ctx.userID())
	if err != nil {
		return err
	}
	if len(plants) == 0 {
		ctx.println("🌷 Every plant is healthy.")
		return nil
	}
	ctx.printf("🥀 %d plant(s) need attention:\n\n", len(plants))
	printPlants(ctx, plants)
	return nil
}
