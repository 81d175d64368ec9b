// ABOUTME: Synthetic policy and case record generator.
// ABOUTME: Draws from fixed vocabularies using an injected random source and clock.

package seed

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

// PolicyRecord is a generated policy document. It is never persisted.
type PolicyRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Region      string   `json:"region"`
	RegionName  string   `json:"regionName"`
	Type        string   `json:"type"`
	TypeName    string   `json:"typeName"`
	PublishDate string   `json:"publishDate"`
	Summary     string   `json:"summary"`
	Keywords    []string `json:"keywords"`
	Content     string   `json:"content"`
}

// Metric is a display figure attached to a case.
type Metric struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CaseRecord is a generated industry case study. It is never persisted.
type CaseRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	CategoryName    string   `json:"categoryName"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Logo            string   `json:"logo"`
	Highlight       string   `json:"highlight"`
	Description     string   `json:"description"`
	FoundedYear     int      `json:"foundedYear"`
	DataMetrics     []Metric `json:"dataMetrics"`
	SuccessFactors  []string `json:"successFactors"`
	BusinessModel   string   `json:"businessModel"`
	Background      string   `json:"background"`
	Strategy        string   `json:"strategy"`
	Execution       string   `json:"execution"`
	Results         string   `json:"results"`
	Lessons         string   `json:"lessons"`
	Tags            []string `json:"tags"`
	RelatedPolicies []string `json:"relatedPolicies"`
}

// GeneratePolicy builds one policy record. It reads only rng and now.
func GeneratePolicy(rng *rand.Rand, now time.Time) PolicyRecord {
	region := choice(rng, policyRegions)
	level := choice(rng, policyLevels)
	title := choice(rng, policyTitles)

	return PolicyRecord{
		ID:          recordID("p", rng, now),
		Title:       region + title,
		Region:      region,
		RegionName:  region,
		Type:        level,
		TypeName:    level,
		PublishDate: now.Format("2006-01-02"),
		Summary:     fmt.Sprintf("该政策旨在推动%s地区文化产业高质量发展，支持文创企业创新发展，促进文旅融合。", region),
		Keywords:    sample(rng, policyKeywords, policyKeywordCount),
		Content:     policyContent,
	}
}

// GenerateCase builds one case record. It reads only rng and now.
func GenerateCase(rng *rand.Rand, now time.Time) CaseRecord {
	co := choice(rng, caseCompanies)
	cat := choice(rng, caseCategories)
	name := prefix(co.Name, caseNamePrefix) + choice(rng, caseNames)

	return CaseRecord{
		ID:           recordID("c", rng, now),
		Name:         name,
		Category:     cat.Code,
		CategoryName: cat.Name,
		Company:      co.Name,
		Location:     co.Location,
		Logo:         choice(rng, caseLogos),
		Highlight:    choice(rng, caseHighlights),
		Description:  fmt.Sprintf("%s通过创新模式，成功打造%s标杆项目。", co.Name, cat.Name),
		FoundedYear:  between(rng, foundedMin, foundedMax),
		DataMetrics: []Metric{
			{Value: fmt.Sprintf("%d亿+", between(rng, revenueMin, revenueMax)), Label: "年营收"},
			{Value: fmt.Sprintf("%d万+", between(rng, usersMin, usersMax)), Label: "用户数量"},
			{Value: fmt.Sprintf("%d+", between(rng, productLinesMin, productLinesMax)), Label: "产品线"},
		},
		SuccessFactors:  slices.Clone(caseSuccessFactors),
		BusinessModel:   caseBusinessModel,
		Background:      caseBackground,
		Strategy:        caseStrategy,
		Execution:       caseExecution,
		Results:         caseResults,
		Lessons:         caseLessons,
		Tags:            sample(rng, caseTags, caseTagCount),
		RelatedPolicies: []string{},
	}
}

// Generator binds a random source and clock so callers can produce records
// without threading both through every call.
type Generator struct {
	rng   *rand.Rand
	clock func() time.Time
}

// NewGenerator creates a generator. A nil clock means time.Now.
func NewGenerator(rng *rand.Rand, clock func() time.Time) *Generator {
	if clock == nil {
		clock = time.Now
	}
	return &Generator{rng: rng, clock: clock}
}

// Policy generates a single policy record.
func (g *Generator) Policy() PolicyRecord {
	return GeneratePolicy(g.rng, g.clock())
}

// Case generates a single case record.
func (g *Generator) Case() CaseRecord {
	return GenerateCase(g.rng, g.clock())
}

// Policies generates count policy records.
func (g *Generator) Policies(count int) []PolicyRecord {
	out := make([]PolicyRecord, 0, max(count, 0))
	for i := 0; i < count; i++ {
		out = append(out, g.Policy())
	}
	return out
}

// Cases generates count case records.
func (g *Generator) Cases(count int) []CaseRecord {
	out := make([]CaseRecord, 0, max(count, 0))
	for i := 0; i < count; i++ {
		out = append(out, g.Case())
	}
	return out
}

// recordID joins a second-precision timestamp and a random four digit suffix.
// Collisions are possible and not checked.
func recordID(kind string, rng *rand.Rand, now time.Time) string {
	return fmt.Sprintf("%s_%s_%d", kind, now.Format("20060102150405"), between(rng, idSuffixMin, idSuffixMax))
}

func choice[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// sample picks k distinct items using a partial Fisher-Yates shuffle.
func sample(rng *rand.Rand, pool []string, k int) []string {
	picked := slices.Clone(pool)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:k:k]
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
