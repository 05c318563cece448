package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestModifiers_Limit(t *testing.T) {
	assert.Equal(t, DefaultTopN, RequestModifiers{}.Limit())
	assert.Equal(t, DefaultTopN, RequestModifiers{TopN: -4}.Limit())
	assert.Equal(t, 3, RequestModifiers{TopN: 3}.Limit())
}

func TestDefaultFlag(t *testing.T) {
	var f DefaultFlag
	assert.Equal(t, "none", f.String())
	assert.Empty(t, f.Names())

	f |= DefaultIndustry | DefaultAgeBracket
	assert.True(t, f.Has(DefaultIndustry))
	assert.False(t, f.Has(DefaultIncome))
	assert.Equal(t, []string{"age_bracket", "industry"}, f.Names())
	assert.Equal(t, "age_bracket|industry", f.String())
}

func TestRegionalProfile_DisplayName(t *testing.T) {
	assert.Equal(t, "Gangnam", (&RegionalProfile{ID: "r1", Name: "Gangnam"}).DisplayName())
	assert.Equal(t, "r1", (&RegionalProfile{ID: "r1"}).DisplayName())
}
