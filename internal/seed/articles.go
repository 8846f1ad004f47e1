package seed

import "github.com/spec-kit/wellness-service/internal/domain"

type sampleArticle struct {
	title   string
	excerpt string
	body    string
	tags    []string
	author  string
	cover   string
}

var sampleArticles = []sampleArticle{
	{
		title:   "10 Superfoods to Kickstart Your New Year",
		excerpt: "Discover the most nutrient-dense foods that will boost your energy and health in the new year.",
		body: `Starting the new year with the right foods can make all the difference in reaching your health goals.

**1. Blueberries**: rich in antioxidants that support brain health.

**2. Salmon**: loaded with omega-3 fatty acids for heart health.

**3. Kale**: packed with vitamins A, K and C.

**4. Quinoa**: a complete protein that is also rich in fiber.

**5. Greek Yogurt**: high in protein and probiotics for gut health.

Adding a few of these to your daily meals keeps energy steady throughout the year.`,
		tags:   []string{"nutrition", "superfoods", "health", "wellness"},
		author: "Dr. Sarah Johnson",
		cover:  "https://images.unsplash.com/photo-1490645935967-10de6ba17061?w=800",
	},
	{
		title:   "The Ultimate Guide to Meal Planning for Busy Professionals",
		excerpt: "Learn how to plan healthy meals efficiently, even with a packed schedule.",
		body: `Meal planning does not have to be complicated.

**Step 1: Choose your planning day.** Sunday works for most people.

**Step 2: Create a template.**
- Breakfast: overnight oats, smoothies or egg muffins
- Lunch: grain bowls, salads or wraps
- Dinner: protein, vegetable and grain

**Step 3: Batch cook** grains, proteins and roasted vegetables.

Start simple and adjust to what works for your week.`,
		tags:   []string{"meal-planning", "nutrition", "busy-lifestyle", "health"},
		author: "Maria Rodriguez, RD",
		cover:  "https://images.unsplash.com/photo-1466637574441-749b8f19452f?w=800",
	},
	{
		title:   "Understanding Macronutrients: Your Complete Guide",
		excerpt: "Break down the science of proteins, carbs, and fats to optimize your nutrition.",
		body: `Macronutrients are the nutrients your body needs in large amounts.

**Proteins** build and repair tissue. Aim for 0.8 to 1.2 g per kg of body weight.

**Carbohydrates** are the main energy source for your body and brain.

**Fats** support hormone production and nutrient absorption.

Whole foods provide a natural balance, so focus on variety over exact numbers.`,
		tags:   []string{"nutrition", "macronutrients", "diet", "education"},
		author: "Dr. Michael Chen",
		cover:  "https://images.unsplash.com/photo-1498837167922-ddd27525d352?w=800",
	},
	{
		title:   "Hydration 101: How Much Water Do You Really Need?",
		excerpt: "Debunking myths and providing science-based recommendations for optimal hydration.",
		body: `Proper hydration is crucial for every bodily function.

**Why it matters:**
- Regulates body temperature
- Transports nutrients
- Protects joints and organs

The "8 glasses per day" rule is a starting point. Your needs depend on body size, activity level and climate.`,
		tags:   []string{"hydration", "health", "wellness"},
		author: "Dr. Sarah Johnson",
		cover:  "https://images.unsplash.com/photo-1548839140-29a749e1cf4d?w=800",
	},
	{
		title:   "Intermittent Fasting: Benefits, Methods, and Safety",
		excerpt: "An evidence-based look at popular fasting schedules and who should avoid them.",
		body: `Intermittent fasting cycles between periods of eating and fasting.

**Popular methods:**
- 16:8, fasting for 16 hours each day
- 5:2, eating normally five days a week

Talk to a dietician before starting if you are pregnant, diabetic or have a history of disordered eating.`,
		tags:   []string{"fasting", "nutrition", "weight-loss"},
		author: "Maria Rodriguez, RD",
		cover:  "https://images.unsplash.com/photo-1505576399279-565b52d4ac71?w=800",
	},
	{
		title:   "Building a Sustainable Exercise Routine",
		excerpt: "Practical steps to make movement a habit that lasts all year.",
		body: `The best routine is the one you keep.

1. Start with 20 minutes, three times a week.
2. Mix strength, cardio and mobility.
3. Track progress with a steps or exercise goal.

Rest days are part of the plan.`,
		tags:   []string{"exercise", "fitness", "habits"},
		author: "Dr. Michael Chen",
		cover:  "https://images.unsplash.com/photo-1517836357463-d25dfeac3438?w=800",
	},
}

// Articles returns the sample articles as published domain records.
func Articles() []domain.Article {
	out := make([]domain.Article, 0, len(sampleArticles))
	for _, sample := range sampleArticles {
		out = append(out, domain.Article{
			Title:         sample.title,
			Slug:          domain.Slugify(sample.title),
			Excerpt:       sample.excerpt,
			Body:          sample.body,
			Tags:          domain.NormalizeTags(sample.tags),
			Author:        sample.author,
			CoverImageURL: sample.cover,
			Published:     true,
		})
	}
	return out
}
