package generator

import "github.com/microsite-ads/backend/internal/models"

// Placeholders: {name} is the product name, {vertical} its label.
type verticalTemplate struct {
	label        string
	groups       []groupTemplate
	headlines    []string
	descriptions []string
}

type groupTemplate struct {
	name     string
	keywords []string
}

var brandGroup = groupTemplate{
	name: "Brand",
	keywords: []string{
		"{name}",
		"{name} official site",
		"{name} review",
		"buy {name}",
	},
}

var templates = map[string]verticalTemplate{
	models.VerticalHealth: {
		label: "Health",
		groups: []groupTemplate{
			{name: "Supplements", keywords: []string{"natural supplement", "best health supplement", "{name} ingredients", "{name} results"}},
			{name: "Wellness", keywords: []string{"daily wellness support", "energy and vitality", "healthy routine"}},
		},
		headlines: []string{
			"{name} Official Site",
			"Try {name} Today",
			"Natural Daily Support",
			"Feel The Difference",
			"Order {name} Online",
			"Trusted By Thousands",
			"Limited Time Offer",
		},
		descriptions: []string{
			"Discover {name}, a daily formula made to support your wellness goals.",
			"Order from the official site and get the best available price today.",
			"Thousands of customers already made {name} part of their routine.",
		},
	},
	models.VerticalDIY: {
		label: "DIY",
		groups: []groupTemplate{
			{name: "Projects", keywords: []string{"diy project plans", "woodworking plans", "{name} plans", "step by step diy guide"}},
			{name: "Tools", keywords: []string{"diy tools guide", "home workshop ideas", "beginner woodworking"}},
		},
		headlines: []string{
			"{name} Official Site",
			"Build It Yourself",
			"Step-By-Step Plans",
			"Get {name} Now",
			"Projects For Beginners",
			"Instant Digital Access",
		},
		descriptions: []string{
			"{name} gives you clear plans and guides for your next project.",
			"Start building today with instructions anyone can follow.",
			"Get instant access from the official site.",
		},
	},
	models.VerticalPets: {
		label: "Pets",
		groups: []groupTemplate{
			{name: "Training", keywords: []string{"dog training program", "puppy training at home", "{name} training", "stop dog barking"}},
			{name: "Care", keywords: []string{"pet care tips", "happy healthy pet", "pet behavior help"}},
		},
		headlines: []string{
			"{name} Official Site",
			"A Happier Pet",
			"Train At Home",
			"Start {name} Today",
			"Vet-Inspired Methods",
			"Results In Days",
		},
		descriptions: []string{
			"{name} helps you understand and train your pet from home.",
			"Simple daily lessons for a calmer, happier companion.",
			"Join pet owners who already trust {name}.",
		},
	},
	models.VerticalDating: {
		label: "Dating",
		groups: []groupTemplate{
			{name: "Singles", keywords: []string{"meet singles", "online dating site", "{name} dating", "find a partner"}},
			{name: "Relationships", keywords: []string{"serious relationship", "dating app", "meet new people"}},
		},
		headlines: []string{
			"{name} Official Site",
			"Meet Singles Near You",
			"Join {name} Free",
			"Start Chatting Today",
			"Real Profiles",
			"Find Your Match",
		},
		descriptions: []string{
			"Join {name} and meet singles who share your interests.",
			"Create your free profile in minutes and start chatting.",
			"Thousands of new members join every week.",
		},
	},
	models.VerticalFinance: {
		label: "Finance",
		groups: []groupTemplate{
			{name: "Investing", keywords: []string{"investing for beginners", "{name} investing", "grow your savings", "personal finance course"}},
			{name: "Money", keywords: []string{"money management tips", "financial freedom plan", "passive income ideas"}},
		},
		headlines: []string{
			"{name} Official Site",
			"Take Control Of Money",
			"Learn {name} Today",
			"Plan Your Finances",
			"Start With Confidence",
			"Clear Financial Steps",
		},
		descriptions: []string{
			"{name} explains money decisions in plain language.",
			"Build a plan for your savings with a step-by-step method.",
			"Get started from the official site today.",
		},
	},
}

var genericTemplate = verticalTemplate{
	label: "General",
	groups: []groupTemplate{
		{name: "Generic", keywords: []string{"{name} online", "{name} price", "{name} discount"}},
	},
	headlines: []string{
		"{name} Official Site",
		"Discover {name}",
		"Order {name} Today",
		"Best Price Online",
		"Fast And Secure",
	},
	descriptions: []string{
		"Learn more about {name} on the official site.",
		"Order today and get the best available price.",
	},
}
