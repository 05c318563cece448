package factories

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/regionrank/internal/models"
)

var ageBrackets = []string{"0-19", "20-29", "30-39", "40-49", "50-59", "60+"}

type RegionFactory struct {
	nameCache sync.Map // to keep names unique within one catalog
}

func (rf *RegionFactory) CreateRegion() *models.RegionalProfile {
	male := fake.Float64(1, 30, 70)

	return &models.RegionalProfile{
		ID:   cuid.New(),
		Name: rf.createUniqueName(fake.Address().City()),
		QualityComponents: models.QualityComponents{
			CommercialActivity: indicatorScore(),
			Specialization:     indicatorScore(),
			EconomicPower:      indicatorScore(),
			Demographic:        indicatorScore(),
		},
		AgeDistribution: randomDistribution(ageBrackets, fake.IntBetween(0, len(ageBrackets))),
		GenderDistribution: map[string]float64{
			string(models.GenderMale):   male,
			string(models.GenderFemale): 100 - male,
		},
		ConsumptionPattern:    randomDistribution(spendingCategories, fake.IntBetween(0, len(spendingCategories))),
		AvgIncome:             math.Round(normalizedValue(regionIncomeMean, regionIncomeStd, 0, 8_000_000)),
		SpecializedIndustries: randomIndustries(fake.IntBetween(0, 4)),
	}
}

// CreateCatalog returns n regions with distinct names.
func (rf *RegionFactory) CreateCatalog(n int) []*models.RegionalProfile {
	catalog := make([]*models.RegionalProfile, n)
	for i := range catalog {
		catalog[i] = rf.CreateRegion()
	}
	return catalog
}

func (rf *RegionFactory) createUniqueName(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "region"
	}

	name := base
	for i := 2; ; i++ {
		if _, loaded := rf.nameCache.LoadOrStore(name, true); !loaded {
			return name
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
}

func randomIndustries(n int) []string {
	if n > len(industries) {
		n = len(industries)
	}
	out := make([]string, 0, n)
	for _, idx := range rand.Perm(len(industries))[:n] {
		out = append(out, industries[idx])
	}
	return out
}
