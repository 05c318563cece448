package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/chrisdamba/regionrank/internal/models"
)

var fake = faker.New()

// Categories shared by user spending and region consumption fixtures.
var spendingCategories = []string{
	"food",
	"cafe",
	"transport",
	"shopping",
	"culture",
	"health",
	"education",
	"other",
}

var industries = []string{
	"cafe",
	"restaurant",
	"bakery",
	"bar",
	"fashion",
	"cosmetics",
	"fitness",
	"bookstore",
	"convenience store",
	"academy",
}

// industryWeights favour the food and beverage industries that dominate the
// consumption data.
var industryWeights = []float64{3, 3, 1.5, 1.5, 1, 1, 1, 0.5, 1, 0.5}

type UserFactory struct{}

func (uf *UserFactory) CreateUser() *models.UserProfile {
	gender := models.GenderMale
	if rand.Intn(2) == 1 {
		gender = models.GenderFemale
	}

	return &models.UserProfile{
		ID:                  cuid.New(),
		Age:                 fake.IntBetween(15, 80),
		Gender:              gender,
		Income:              fake.Float64(0, 1_000_000, 9_000_000),
		SpendingCategories:  randomDistribution(spendingCategories, fake.IntBetween(0, len(spendingCategories))),
		PreferredIndustries: uf.generatePreferredIndustries(),
	}
}

// CreateUsers returns n independent random users.
func (uf *UserFactory) CreateUsers(n int) []*models.UserProfile {
	users := make([]*models.UserProfile, n)
	for i := range users {
		users[i] = uf.CreateUser()
	}
	return users
}

func (uf *UserFactory) generatePreferredIndustries() []string {
	totalWeight := 0.0
	for _, w := range industryWeights {
		totalWeight += w
	}

	count := rand.Intn(4) // 0 to 3 preferences, empty is a valid profile
	seen := make(map[string]bool, count)
	preferences := make([]string, 0, count)
	for i := 0; i < count; i++ {
		selected := selectWeighted(industries, industryWeights, totalWeight)
		if selected != "" && !seen[selected] {
			seen[selected] = true
			preferences = append(preferences, selected)
		}
	}
	return preferences
}

func selectWeighted(items []string, weights []float64, totalWeight float64) string {
	if len(items) == 0 || totalWeight == 0 {
		return ""
	}

	r := rand.Float64() * totalWeight
	currentSum := 0.0

	for i, item := range items {
		currentSum += weights[i]
		if r <= currentSum {
			return item
		}
	}

	return items[len(items)-1]
}

// randomDistribution picks n distinct keys and spreads 100 percentage points
// across them.
func randomDistribution(keys []string, n int) map[string]float64 {
	if n <= 0 {
		return map[string]float64{}
	}
	if n > len(keys) {
		n = len(keys)
	}

	picked := rand.Perm(len(keys))[:n]
	raw := make([]float64, n)
	total := 0.0
	for i := range raw {
		raw[i] = rand.Float64() + 0.05
		total += raw[i]
	}

	dist := make(map[string]float64, n)
	for i, idx := range picked {
		dist[keys[idx]] = raw[i] / total * 100
	}
	return dist
}
