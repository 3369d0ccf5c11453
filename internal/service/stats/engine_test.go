package stats

import (
	"math"
	"reflect"
	"testing"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

func resp(g domain.Gender, a domain.AgeGroup, und, sat int) domain.RawResponse {
	return domain.RawResponse{Gender: g, AgeGroup: a, Understanding: und, Satisfaction: sat}
}

// fourResponses is the reference scenario: genders [male, male, female,
// other], understanding [3,4,4,5].
func fourResponses() []domain.RawResponse {
	return []domain.RawResponse{
		resp(domain.GenderMale, domain.AgeGroupTwenties, 3, 4),
		resp(domain.GenderMale, domain.AgeGroupTwenties, 4, 4),
		resp(domain.GenderFemale, domain.AgeGroupThirties, 4, 2),
		resp(domain.GenderOther, domain.AgeGroupUnder20, 5, 5),
	}
}

func factsOf(t *testing.T, facts []domain.ResultFact, statType domain.StatType, dim1 domain.QuestionCode) []domain.ResultFact {
	t.Helper()
	var out []domain.ResultFact
	for _, f := range facts {
		if f.StatType == statType && f.Dim1Question == dim1 {
			out = append(out, f)
		}
	}
	return out
}

func simpleByOption(t *testing.T, facts []domain.ResultFact, q domain.QuestionCode) map[string]*domain.SimpleMeasure {
	t.Helper()
	m := make(map[string]*domain.SimpleMeasure)
	for _, f := range factsOf(t, facts, domain.StatTypeSimple, q) {
		m[f.Dim1Option] = f.Simple
	}
	return m
}

func TestAggregate_FactCountAndValidity(t *testing.T) {
	t.Parallel()

	facts := Aggregate(fourResponses())

	// simple: 4+6+5+5 = 20; cross2: 5*4 + 5*6 + 5*4 + 5*6 = 100; summary: 2.
	if got, want := len(facts), 122; got != want {
		t.Fatalf("fact count: got %d, want %d", got, want)
	}

	for i := range facts {
		if err := facts[i].Validate(); err != nil {
			t.Errorf("fact %d (%s/%s/%s) invalid: %v",
				i, facts[i].StatType, facts[i].Dim1Question, facts[i].Dim1Option, err)
		}
	}
}

func TestAggregate_GenderDistribution(t *testing.T) {
	t.Parallel()

	facts := Aggregate(fourResponses())
	gender := simpleByOption(t, facts, domain.QuestionGender)

	cases := []struct {
		option string
		n      int
		pct    float64
	}{
		{"male", 2, 50},
		{"female", 1, 25},
		{"other", 1, 25},
		{"preferNotToSay", 0, 0}, // zero-count cell is emitted, not dropped
	}

	for _, tc := range cases {
		m, ok := gender[tc.option]
		if !ok {
			t.Fatalf("missing gender fact for option %q", tc.option)
		}
		if m.N != tc.n {
			t.Errorf("gender %s: n = %d, want %d", tc.option, m.N, tc.n)
		}
		if m.Pct != tc.pct {
			t.Errorf("gender %s: pct = %v, want %v", tc.option, m.Pct, tc.pct)
		}
		if m.BaseN != 4 {
			t.Errorf("gender %s: baseN = %d, want 4", tc.option, m.BaseN)
		}
	}
}

func TestAggregate_SimpleInvariants(t *testing.T) {
	t.Parallel()

	responses := fourResponses()
	facts := Aggregate(responses)

	for _, q := range []domain.QuestionCode{
		domain.QuestionGender, domain.QuestionAgeGroup,
		domain.QuestionUnderstanding, domain.QuestionSatisfaction,
	} {
		sumN := 0
		sumPct := 0.0
		for _, f := range factsOf(t, facts, domain.StatTypeSimple, q) {
			sumN += f.Simple.N
			sumPct += f.Simple.Pct
		}
		if sumN != len(responses) {
			t.Errorf("%s: sum(n) = %d, want %d", q, sumN, len(responses))
		}
		if math.Abs(sumPct-100) > 1e-9 {
			t.Errorf("%s: sum(pct) = %v, want 100", q, sumPct)
		}
	}
}

func TestAggregate_EmptyResponseSet(t *testing.T) {
	t.Parallel()

	facts := Aggregate(nil)

	for _, f := range facts {
		switch f.StatType {
		case domain.StatTypeSimple:
			if f.Simple.N != 0 || f.Simple.Pct != 0 || f.Simple.BaseN != 0 {
				t.Errorf("empty set: simple fact %s/%s not zero: %+v", f.Dim1Question, f.Dim1Option, *f.Simple)
			}
		case domain.StatTypeCross2:
			if f.Cross.N != 0 || f.Cross.RowPct != 0 || f.Cross.ColPct != 0 || f.Cross.TotalPct != 0 {
				t.Errorf("empty set: cross fact not zero: %+v", *f.Cross)
			}
		case domain.StatTypeSummary:
			if f.Summary.AvgScore != 0 {
				t.Errorf("empty set: summary avg = %v, want 0", f.Summary.AvgScore)
			}
		}
	}
}

func TestAggregate_SummaryAverage(t *testing.T) {
	t.Parallel()

	// understanding ratings [3,4,4,5] -> exactly 4.00
	facts := Aggregate(fourResponses())

	for _, f := range factsOf(t, facts, domain.StatTypeSummary, domain.QuestionTotal) {
		if *f.TargetQuestion != domain.QuestionUnderstanding {
			continue
		}
		if f.Summary.AvgScore != 4.00 {
			t.Errorf("understanding average: got %v, want 4.00", f.Summary.AvgScore)
		}
	}
}

func TestAggregate_SummaryAverageBounds(t *testing.T) {
	t.Parallel()

	responses := []domain.RawResponse{
		resp(domain.GenderMale, domain.AgeGroupForties, 1, 5),
		resp(domain.GenderFemale, domain.AgeGroupFifties, 2, 3),
		resp(domain.GenderMale, domain.AgeGroupSixtyPlus, 1, 4),
	}

	for _, f := range Aggregate(responses) {
		if f.StatType != domain.StatTypeSummary {
			continue
		}
		if f.Summary.AvgScore < 1 || f.Summary.AvgScore > 5 {
			t.Errorf("summary average %v out of [1,5]", f.Summary.AvgScore)
		}
	}
}

func TestAggregate_SummaryRounding(t *testing.T) {
	t.Parallel()

	// satisfaction [4,4,2] -> 10/3 = 3.333... -> 3.33
	responses := []domain.RawResponse{
		resp(domain.GenderMale, domain.AgeGroupTwenties, 3, 4),
		resp(domain.GenderMale, domain.AgeGroupTwenties, 3, 4),
		resp(domain.GenderFemale, domain.AgeGroupTwenties, 3, 2),
	}

	for _, f := range Aggregate(responses) {
		if f.StatType == domain.StatTypeSummary && *f.TargetQuestion == domain.QuestionSatisfaction {
			if f.Summary.AvgScore != 3.33 {
				t.Errorf("satisfaction average: got %v, want 3.33", f.Summary.AvgScore)
			}
		}
	}
}

func TestAggregate_CrossTabulation(t *testing.T) {
	t.Parallel()

	facts := Aggregate(fourResponses())

	// understanding=4 x gender: responses are (4, male) and (4, female).
	var cell *domain.CrossMeasure
	for _, f := range factsOf(t, facts, domain.StatTypeCross2, domain.QuestionUnderstanding) {
		if f.Dim1Option == "4" && *f.Dim2Question == domain.QuestionGender && *f.Dim2Option == "male" {
			cell = f.Cross
		}
	}
	if cell == nil {
		t.Fatal("missing cross fact for understanding=4 x gender=male")
	}

	if cell.N != 1 {
		t.Errorf("cell n = %d, want 1", cell.N)
	}
	// Row: 2 responses with understanding=4; column: 2 male responses.
	if cell.RowPct != 50 || cell.RowBaseN != 2 {
		t.Errorf("rowPct/rowBaseN = %v/%d, want 50/2", cell.RowPct, cell.RowBaseN)
	}
	if cell.ColPct != 50 || cell.ColBaseN != 2 {
		t.Errorf("colPct/colBaseN = %v/%d, want 50/2", cell.ColPct, cell.ColBaseN)
	}
	if cell.TotalPct != 25 || cell.TotalBaseN != 4 {
		t.Errorf("totalPct/totalBaseN = %v/%d, want 25/4", cell.TotalPct, cell.TotalBaseN)
	}
}

func TestAggregate_CrossZeroCellEmitted(t *testing.T) {
	t.Parallel()

	facts := Aggregate(fourResponses())

	// No response has understanding=1, so every understanding=1 cell must
	// exist with zero measures and a zero row denominator.
	found := false
	for _, f := range factsOf(t, facts, domain.StatTypeCross2, domain.QuestionUnderstanding) {
		if f.Dim1Option != "1" {
			continue
		}
		found = true
		if f.Cross.N != 0 || f.Cross.RowPct != 0 || f.Cross.RowBaseN != 0 {
			t.Errorf("zero row cell has non-zero measures: %+v", *f.Cross)
		}
	}
	if !found {
		t.Error("zero-count cross cells must be emitted")
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	t.Parallel()

	a := Aggregate(fourResponses())
	b := Aggregate(fourResponses())

	if !reflect.DeepEqual(a, b) {
		t.Error("Aggregate must be deterministic for identical input")
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{4.0, 4.0},
		{3.3333333, 3.33},
		{0.125, 0.13}, // exact half, away from zero
		{-0.125, -0.13},
		{2.674999, 2.67},
		{0, 0},
	}

	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v): got %v, want %v", tc.in, got, tc.want)
		}
	}
}
