package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/regionrank/internal/recommender"
)

// RecommendationRecord is the flat, self-describing row written for every
// ranked region.
type RecommendationRecord struct {
	Timestamp        int64    `json:"timestamp"`
	RequestID        string   `json:"request_id"`
	UserID           string   `json:"user_id"`
	Rank             int      `json:"rank"`
	RegionID         string   `json:"region_id"`
	Region           string   `json:"region"`
	QualityScore     float64  `json:"quality_score"`
	MatchingScore    float64  `json:"matching_score"`
	FinalScore       float64  `json:"final_score"`
	Tier             string   `json:"tier"`
	TierDescription  string   `json:"tier_description"`
	DemographicScore float64  `json:"demographic_score"`
	ConsumptionScore float64  `json:"consumption_score"`
	IncomeScore      float64  `json:"income_score"`
	IndustryScore    float64  `json:"industry_score"`
	NeutralDefaults  string   `json:"neutral_defaults"`
	Reasons          []string `json:"reasons"`
}

// reasonSeparator joins reasons in columnar formats.
const reasonSeparator = "; "

func (r RecommendationRecord) eventTime() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}

var csvHeaders = []string{
	"timestamp", "request_id", "user_id", "rank", "region_id", "region",
	"quality_score", "matching_score", "final_score", "tier", "tier_description",
	"demographic_score", "consumption_score", "income_score", "industry_score",
	"neutral_defaults", "reasons",
}

func (r RecommendationRecord) csvRow() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	return []string{
		strconv.FormatInt(r.Timestamp, 10), r.RequestID, r.UserID, strconv.Itoa(r.Rank), r.RegionID, r.Region,
		f(r.QualityScore), f(r.MatchingScore), f(r.FinalScore), r.Tier, r.TierDescription,
		f(r.DemographicScore), f(r.ConsumptionScore), f(r.IncomeScore), f(r.IndustryScore),
		r.NeutralDefaults, strings.Join(r.Reasons, reasonSeparator),
	}
}

// NewRecords flattens a response. describe maps a quality score to its tier
// description and may be nil.
func NewRecords(resp *recommender.Response, describe func(float64) string) []RecommendationRecord {
	records := make([]RecommendationRecord, 0, len(resp.Results))
	for _, res := range resp.Results {
		rec := RecommendationRecord{
			Timestamp:        resp.GeneratedAt.Unix(),
			RequestID:        resp.RequestID,
			UserID:           resp.UserID,
			Rank:             res.Rank,
			RegionID:         res.RegionID,
			Region:           res.Region,
			QualityScore:     res.QualityScore,
			MatchingScore:    res.MatchingScore,
			FinalScore:       res.FinalScore,
			Tier:             string(res.Tier),
			DemographicScore: res.Breakdown.DemographicScore,
			ConsumptionScore: res.Breakdown.ConsumptionScore,
			IncomeScore:      res.Breakdown.IncomeScore,
			IndustryScore:    res.Breakdown.IndustryScore,
			NeutralDefaults:  res.Breakdown.Defaults.String(),
			Reasons:          res.Reasons,
		}
		if describe != nil {
			rec.TierDescription = describe(res.QualityScore)
		}
		records = append(records, rec)
	}
	return records
}

// Publish encodes every record and hands it to dest.
func Publish(dest Destination, topic string, records []RecommendationRecord) error {
	for _, rec := range records {
		msg, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		if err := dest.WriteMessage(topic, msg); err != nil {
			return fmt.Errorf("failed to write record %s/%d: %w", rec.RequestID, rec.Rank, err)
		}
	}
	return nil
}

func decodeRecord(msg []byte) (RecommendationRecord, error) {
	var rec RecommendationRecord
	if err := json.Unmarshal(msg, &rec); err != nil {
		return rec, fmt.Errorf("invalid recommendation record: %w", err)
	}
	return rec, nil
}

func partitionPath(t time.Time) string {
	year, month, day := t.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, t.Hour())
}
