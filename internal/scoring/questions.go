package scoring

// Question is one questionnaire item. Each option carries the personality
// trait it signals and the weight contributed to that trait's score.
type Question struct {
	ID       string
	Category string
	Text     string
	Options  []Option
}

// Option is a selectable answer for a question.
type Option struct {
	Text   string
	Trait  string
	Weight float64
}

// Questions is the built-in question bank. The bank evolves independently of
// historical answer data, so scoring skips answers it cannot match.
var Questions = []Question{
	{
		ID: "attachment_1", Category: "attachment",
		Text: "When a relationship hits a rough patch, you usually:",
		Options: []Option{
			{Text: "Reach out and talk it through", Trait: "secure attachment", Weight: 1.2},
			{Text: "Need time alone to think", Trait: "avoidant attachment", Weight: 1.0},
			{Text: "Feel anxious and need immediate reassurance", Trait: "anxious attachment", Weight: 0.8},
		},
	},
	{
		ID: "attachment_2", Category: "attachment",
		Text: "In a close relationship you value most:",
		Options: []Option{
			{Text: "Emotional safety and stability", Trait: "security need", Weight: 1.2},
			{Text: "Personal space and autonomy", Trait: "independence need", Weight: 1.0},
			{Text: "Closeness and time together", Trait: "dependence need", Weight: 0.9},
		},
	},
	{
		ID: "conflict_1", Category: "conflict",
		Text: "During an argument you tend to:",
		Options: []Option{
			{Text: "Stay calm and look for a solution", Trait: "constructive conflict", Weight: 1.2},
			{Text: "Criticize the other person's character", Trait: "criticism tendency", Weight: 0.7},
			{Text: "Get defensive or counterattack", Trait: "defensiveness", Weight: 0.6},
		},
	},
	{
		ID: "conflict_2", Category: "conflict",
		Text: "Facing a persistent disagreement, you:",
		Options: []Option{
			{Text: "Compromise and look for balance", Trait: "inclusiveness", Weight: 1.2},
			{Text: "Hold your position until proven right", Trait: "rigidity", Weight: 0.7},
			{Text: "Drop the subject to avoid friction", Trait: "avoidance", Weight: 0.8},
		},
	},
	{
		ID: "language_1", Category: "language",
		Text: "You most naturally express appreciation by:",
		Options: []Option{
			{Text: "Saying encouraging, affirming words", Trait: "affirming language", Weight: 1.1},
			{Text: "Doing something helpful", Trait: "acts of service", Weight: 1.1},
			{Text: "Giving a thoughtful gift", Trait: "gift giving", Weight: 1.0},
		},
	},
	{
		ID: "boundary_1", Category: "boundary",
		Text: "When your partner asks about your friendships, you:",
		Options: []Option{
			{Text: "Share openly while keeping some privacy", Trait: "healthy boundaries", Weight: 1.2},
			{Text: "Tell them everything in detail", Trait: "merged boundaries", Weight: 0.9},
			{Text: "Prefer not to mix those worlds", Trait: "closed boundaries", Weight: 0.8},
		},
	},
	{
		ID: "values_1", Category: "values",
		Text: "A good marriage mostly depends on:",
		Options: []Option{
			{Text: "Both people growing together", Trait: "growth marriage", Weight: 1.2},
			{Text: "Finding the right person from the start", Trait: "fate belief", Weight: 0.8},
			{Text: "Keeping accounts even and duties split", Trait: "transactional view", Weight: 0.7},
		},
	},
	{
		ID: "values_2", Category: "values",
		Text: "Between career and family you would:",
		Options: []Option{
			{Text: "Balance both, adjusting per life stage", Trait: "balanced development", Weight: 1.2},
			{Text: "Put career first for now", Trait: "career priority", Weight: 0.9},
			{Text: "Always put family first", Trait: "family priority", Weight: 1.0},
		},
	},
	{
		ID: "lifestyle_1", Category: "lifestyle",
		Text: "On handling money as a couple, you prefer:",
		Options: []Option{
			{Text: "Shared budget with joint goals", Trait: "shared finances", Weight: 1.2},
			{Text: "Separate accounts, split bills", Trait: "separate finances", Weight: 0.9},
			{Text: "One person manages it all", Trait: "delegated finances", Weight: 0.8},
		},
	},
	{
		ID: "lifestyle_2", Category: "lifestyle",
		Text: "If you raised children together, you would lean towards:",
		Options: []Option{
			{Text: "Open discussion and letting them explore", Trait: "open education", Weight: 1.2},
			{Text: "Clear rules and structured plans", Trait: "structured education", Weight: 1.0},
			{Text: "Following how we were raised", Trait: "traditional education", Weight: 0.8},
		},
	},
	{
		ID: "growth_1", Category: "growth",
		Text: "When you notice a flaw in yourself, you:",
		Options: []Option{
			{Text: "Work on it and track progress", Trait: "growth mindset", Weight: 1.2},
			{Text: "Ask people close to you for help", Trait: "help-seeking mindset", Weight: 1.1},
			{Text: "Accept it as part of who you are", Trait: "fixed mindset", Weight: 0.8},
		},
	},
}

// dimensionTraits maps each report dimension to the traits it averages.
var dimensionTraits = map[string][]string{
	"personalityMatch":   {"secure attachment", "healthy boundaries", "growth mindset"},
	"communicationStyle": {"constructive conflict", "inclusiveness", "affirming language"},
	"values":             {"growth marriage", "healthy boundaries", "balanced development"},
	"lifestyle":          {"shared finances", "open education", "acts of service"},
	"growthPotential":    {"growth mindset", "help-seeking mindset", "inclusiveness"},
}
