package constants

// Category groups habits in the garden
type Category string

// PlantType is the kind of plant that represents a habit
type PlantType string

const (
	CategoryHealth Category = "health"
	CategoryStudy  Category = "study"
	CategoryWork   Category = "work"
	CategoryLife   Category = "life"

	PlantFlower PlantType = "flower"
	PlantTree   PlantType = "tree"
	PlantCactus PlantType = "cactus"
	PlantHerb   PlantType = "herb"

	DefaultCategory        = CategoryLife
	DefaultPlantType       = PlantFlower
	DefaultHabitIcon       = "🌱"
	DefaultTargetFrequency = 7
	DefaultDifficulty      = 1
	MinTargetFrequency     = 1
	MaxTargetFrequency     = 7
	MinDifficulty          = 1
	MaxDifficulty          = 5

	DefaultUsername      = "My Garden"
	DefaultAvatarColor   = "#4CAF50"
	DefaultDailyGoalTime = "08:00"

	// Plant model
	MinStage           = 1
	MaxStage           = 5
	MaxGrowth          = 100
	MaxHealth          = 100
	WaterGrowthStep    = 5
	WaterHealthStep    = 10
	DecayPerDay        = 5
	MaxDecayPerSweep   = 50
	HealthyThreshold   = 50
	BloomingStage      = 4
	InitialPlantHealth = 100
)

// StageThresholds maps growth percentage lower bounds to stages, highest first.
var StageThresholds = []struct {
	MinGrowth int
	Stage     int
}{
	{80, 5},
	{60, 4},
	{40, 3},
	{20, 2},
}

// StageNames is indexed by stage (1-5).
var StageNames = map[int]string{
	1: "Seed",
	2: "Sprout",
	3: "Seedling",
	4: "Blooming",
	5: "Fruiting",
}

type CategoryInfo struct {
	Name  string
	Icon  string
	Color string
}

var Categories = map[Category]CategoryInfo{
	CategoryHealth: {Name: "Health", Icon: "💪", Color: "#4CAF50"},
	CategoryStudy:  {Name: "Study", Icon: "📚", Color: "#2196F3"},
	CategoryWork:   {Name: "Work", Icon: "💼", Color: "#FF9800"},
	CategoryLife:   {Name: "Life", Icon: "🏠", Color: "#9C27B0"},
}

// CategoryOrder is the display order for categories.
var CategoryOrder = []Category{CategoryHealth, CategoryStudy, CategoryWork, CategoryLife}

type PlantInfo struct {
	Name   string
	Icon   string
	Stages [5]string
}

var PlantTypes = map[PlantType]PlantInfo{
	PlantFlower: {Name: "Flower", Icon: "🌸", Stages: [5]string{"🌱", "🌿", "🌷", "🌸", "💐"}},
	PlantTree:   {Name: "Tree", Icon: "🌳", Stages: [5]string{"🌱", "🌿", "🪴", "🌲", "🌳"}},
	PlantCactus: {Name: "Cactus", Icon: "🌵", Stages: [5]string{"🌱", "🌿", "🪴", "🌵", "🏜️"}},
	PlantHerb:   {Name: "Herb", Icon: "🌿", Stages: [5]string{"🌱", "☘️", "🌿", "🍀", "🌾"}},
}

type DifficultyInfo struct {
	Name             string
	Color            string
	GrowthMultiplier float64
}

var DifficultyLevels = map[int]DifficultyInfo{
	1: {Name: "Easy", Color: "#4CAF50", GrowthMultiplier: 1.0},
	2: {Name: "Simple", Color: "#8BC34A", GrowthMultiplier: 1.2},
	3: {Name: "Moderate", Color: "#FFC107", GrowthMultiplier: 1.5},
	4: {Name: "Hard", Color: "#FF9800", GrowthMultiplier: 1.8},
	5: {Name: "Challenge", Color: "#F44336", GrowthMultiplier: 2.0},
}

type HabitTemplate struct {
	Name       string
	Icon       string
	Category   Category
	PlantType  PlantType
	Difficulty int
}

// DefaultHabits are offered by `init --with-defaults`.
var DefaultHabits = []HabitTemplate{
	{Name: "Morning exercise", Icon: "🏃", Category: CategoryHealth, PlantType: PlantTree, Difficulty: 3},
	{Name: "Reading", Icon: "📖", Category: CategoryStudy, PlantType: PlantFlower, Difficulty: 2},
	{Name: "Drink water", Icon: "💧", Category: CategoryHealth, PlantType: PlantHerb, Difficulty: 1},
	{Name: "Meditation", Icon: "🧘", Category: CategoryHealth, PlantType: PlantFlower, Difficulty: 2},
	{Name: "Journal", Icon: "✍️", Category: CategoryLife, PlantType: PlantFlower, Difficulty: 2},
}

type ThemeInfo struct {
	Name       string
	Primary    string
	Secondary  string
	Background string
	Accent     string
}

var Themes = map[string]ThemeInfo{
	"spring": {Name: "Spring", Primary: "#4CAF50", Secondary: "#8BC34A", Background: "#F1F8E9", Accent: "#CDDC39"},
	"summer": {Name: "Summer", Primary: "#FF9800", Secondary: "#FFC107", Background: "#FFF8E1", Accent: "#FFEB3B"},
	"autumn": {Name: "Autumn", Primary: "#FF5722", Secondary: "#FF7043", Background: "#FBE9E7", Accent: "#FFAB91"},
	"winter": {Name: "Winter", Primary: "#607D8B", Secondary: "#78909C", Background: "#ECEFF1", Accent: "#B0BEC5"},
}

func IsValidCategory(c string) bool {
	_, ok := Categories[Category(c)]
	return ok
}

func IsValidPlantType(p string) bool {
	_, ok := PlantTypes[PlantType(p)]
	return ok
}
