package problemgen

import "fmt"

// Level is a difficulty level. Level L targets a learner aged L+6.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 20
)

// Valid reports whether l is inside [MinLevel, MaxLevel].
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Clamp returns l limited to [MinLevel, MaxLevel].
func (l Level) Clamp() Level {
	switch {
	case l < MinLevel:
		return MinLevel
	case l > MaxLevel:
		return MaxLevel
	}
	return l
}

// Age is the learner age the level is pitched at.
func (l Level) Age() int {
	return int(l.Clamp()) + 6
}

// PointsForLevel returns the score awarded for a correct answer at level.
func PointsForLevel(level Level) (int, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("invalid difficulty level %d", level)
	}
	return int(level) * 10, nil
}

// levelNames covers the first five levels; later levels use tiered band
// names (see Name).
var levelNames = [...]string{"Explorer", "Solver", "Strategist", "Virtuoso", "Genius"}

type band struct {
	from, to    Level
	name        string
	audience    string
	description string
	topics      []string
}

var bands = []band{
	{
		from: 6, to: 10, name: "Scholar",
		audience:    "a secondary school student",
		description: "secondary school algebra and geometry: linear equations and inequalities, simultaneous equations, Pythagoras, area and volume, powers and roots. Two to four steps.",
		topics:      []string{"simultaneous equations", "Pythagoras' theorem", "volume of prisms", "index laws", "linear inequalities", "compound percentage change"},
	},
	{
		from: 11, to: 15, name: "Luminary",
		audience:    "a senior high school or first-year university student",
		description: "pre-university and early university mathematics: quadratics, logarithms, trigonometric values, sequences and series, elementary probability, derivatives and definite integrals with exact numeric results.",
		topics:      []string{"quadratic equations", "logarithms", "arithmetic and geometric series", "probability", "derivatives at a point", "definite integrals"},
	},
	{
		from: 16, to: 20, name: "Grandmaster",
		audience:    "an advanced undergraduate or MSc mathematics student",
		description: "advanced university mathematics with a single numeric answer: linear algebra (determinants, eigenvalues), multivariable calculus, series convergence values, combinatorics, number theory, and probability distributions.",
		topics:      []string{"determinants", "eigenvalues", "double integrals", "sums of series", "combinatorics", "modular arithmetic", "expected values"},
	},
}

// Per-level descriptions and topic hints for the first five levels.
var earlyLevels = [...]struct {
	description string
	topics      []string
}{
	{
		description: "very basic arithmetic (addition, subtraction, multiplication, division) with small positive integers. Single step.",
		topics:      []string{"addition", "subtraction", "multiplication", "division"},
	},
	{
		description: "simple algebra (e.g., find x in 2x + 3 = 7 or x/3 - 1 = 4) or slightly harder arithmetic. Single or two steps.",
		topics:      []string{"simple algebra with x", "order of operations", "two-step arithmetic"},
	},
	{
		description: "problems involving fractions, decimals, or percentages. May include simple word problems. Up to two or three steps.",
		topics:      []string{"fractions operations", "decimal operations", "percentage calculations", "basic word problems"},
	},
	{
		description: "basic geometry (area, perimeter of simple shapes like rectangles or squares), multi-step arithmetic, or intermediate word problems (e.g., rate/time/distance, simple ratios).",
		topics:      []string{"area of rectangles", "perimeter of rectangles", "rate-time-distance problems", "ratio and proportion problems"},
	},
	{
		description: "advanced algebra (multi-step equations, possibly with variables on both sides), or more complex multi-step word problems requiring careful reading.",
		topics:      []string{"multi-step algebraic equations", "complex word problems involving multiple operations", "geometry word problems"},
	},
}

func bandFor(l Level) band {
	l = l.Clamp()
	for _, b := range bands {
		if l >= b.from && l <= b.to {
			return b
		}
	}
	return bands[len(bands)-1]
}

// Name is the display name of the level, e.g. "Strategist" or "Scholar II".
func (l Level) Name() string {
	l = l.Clamp()
	if int(l) <= len(levelNames) {
		return levelNames[l-1]
	}
	b := bandFor(l)
	return fmt.Sprintf("%s %s", b.name, roman(int(l-b.from)+1))
}

// Description describes the kind of problems appropriate for the level.
func (l Level) Description() string {
	l = l.Clamp()
	if int(l) <= len(earlyLevels) {
		return earlyLevels[l-1].description
	}
	return bandFor(l).description
}

// Topics lists topic hints for the level.
func (l Level) Topics() []string {
	l = l.Clamp()
	if int(l) <= len(earlyLevels) {
		return earlyLevels[l-1].topics
	}
	return bandFor(l).topics
}

// Audience describes the learner the level targets.
func (l Level) Audience() string {
	l = l.Clamp()
	if l <= 12 {
		return fmt.Sprintf("a %d-year-old school student", l.Age())
	}
	return bandFor(l).audience
}

func (l Level) String() string {
	return fmt.Sprintf("%d (%s)", int(l), l.Name())
}

func roman(n int) string {
	return [...]string{"I", "II", "III", "IV", "V"}[(n-1)%5]
}
