package catalog

// Built-in catalog. Every phrase must survive filter.IsAppropriate against
// defaultDenylist, which rules out innocent words like "highlight" or "class".

var defaultEntries = []Entry{
	{
		Type:        "busy",
		Description: "Working hard on something important",
		Phrases: []string{
			"Drowning in code and loving it",
			"Debugging my life choices",
			"Pretending to understand this code",
			"Fighting with my computer",
			"Making the magic happen",
			"Deep in the matrix",
			"Caffeinated and confused",
		},
	},
	{
		Type:        "away",
		Description: "Not available",
		Phrases: []string{
			"Probably getting coffee",
			"Lost in thought (and space)",
			"Staring at walls",
			"Questioning my career choices",
			"On a walk to clear my head",
			"Probably napping",
		},
	},
	{
		Type:        "meeting",
		Description: "In a meeting",
		Phrases: []string{
			"In a meeting that could be an email",
			"Pretending to pay attention",
			"Counting ceiling tiles",
			"Planning my escape route",
			"Taking notes (of my grocery list)",
			"In a very important meeting",
			"Collaborating (or trying to)",
		},
	},
	{
		Type:        "focus",
		Description: "Heads-down focus time",
		Phrases: []string{
			"Do not disturb (seriously)",
			"In the zone (or trying to be)",
			"Deep work mode activated",
			"Focused and fabulous",
			"In my element",
			"Concentration station",
		},
	},
	{
		Type:        "lunch",
		Description: "Eating lunch/dinner",
		Phrases: []string{
			"Eating my feelings",
			"Fueling up for the afternoon",
			"Pretending this is nutritious",
			"Lunch: the best part of my day",
			"Eating and scrolling",
			"Refueling the machine",
			"Lunch time adventures",
		},
	},
	{
		Type:        "short_break",
		Description: "Taking a short break",
		Phrases: []string{
			"Back in five (ish)",
			"Quick reboot, brb",
			"Stretching my legs for a sec",
			"Blink and you will miss me",
			"Micro-break in progress",
		},
	},
	{
		Type:        "break",
		Description: "Taking a break",
		Phrases: []string{
			"Stretching my legs (and brain)",
			"Quick break to reset",
			"Taking a moment",
			"Recharging my batteries",
			"Quick escape",
			"Break time bliss",
		},
	},
	{
		Type:        "long_break",
		Description: "Taking a long break",
		Phrases: []string{
			"Gone fishing (metaphorically)",
			"Recharging to full capacity",
			"Out for a proper reset",
			"Taking the scenic route back",
			"Back later, better, brighter",
		},
	},
	{
		Type:        "coffee",
		Description: "Getting coffee or a drink",
		Phrases: []string{
			"Brewing ideas (and coffee)",
			"Espresso yourself",
			"Refilling the productivity juice",
			"Running on caffeine and hope",
			"Bean there, brewing that",
			"Coffee first, questions later",
		},
	},
	{
		Type:        "walk",
		Description: "Taking a walk or exercise break",
		Phrases: []string{
			"Walking it off",
			"Chasing my step goal",
			"Getting some fresh air and ideas",
			"Out for a brain-clearing stroll",
			"Taking my thoughts for a walk",
		},
	},
	{
		Type:        "errands",
		Description: "Running errands or out of office",
		Phrases: []string{
			"Adulting in progress",
			"On a quest for groceries",
			"Running errands, literally",
			"Out checking boxes off my list",
			"Away on official life business",
		},
	},
	{
		Type:        "sick",
		Description: "Sick or not feeling well",
		Phrases: []string{
			"Powered by tea and tissues",
			"Rebooting my immune system",
			"Out of order, back soon",
			"Recovering, send soup",
			"Temporarily running on low power",
		},
	},
	{
		Type:        "travel",
		Description: "Traveling or on the road",
		Phrases: []string{
			"In transit, replies in transit too",
			"Somewhere between here and there",
			"Working from seat 23B",
			"On the road again",
			"Airport wifi permitting",
		},
	},
}

var defaultDenylist = []string{
	"shit", "fuck", "damn", "hell", "bitch", "ass", "piss", "crap",
	"going for a shit", "taking a dump", "bathroom break",
	"drunk", "high", "stoned", "wasted",
	"hate", "kill", "die", "death",
}
