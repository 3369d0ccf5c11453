package domain

// SurveyStatus represents the lifecycle state of a lecture's survey.
// Transitions are strictly ACTIVE -> CLOSED -> ANALYZED; no state is
// skipped and no backward transition exists.
type SurveyStatus string

const (
	SurveyStatusActive   SurveyStatus = "ACTIVE"
	SurveyStatusClosed   SurveyStatus = "CLOSED"
	SurveyStatusAnalyzed SurveyStatus = "ANALYZED"
)

func (s SurveyStatus) String() string { return string(s) }

func (s SurveyStatus) IsValid() bool {
	switch s {
	case SurveyStatusActive, SurveyStatusClosed, SurveyStatusAnalyzed:
		return true
	}
	return false
}

// IsAnalyzable reports whether a lecture in this state may be aggregated.
func (s SurveyStatus) IsAnalyzable() bool {
	return s == SurveyStatusClosed || s == SurveyStatusAnalyzed
}

// Gender is the respondent's self-reported gender option.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "preferNotToSay"
)

func (g Gender) String() string { return string(g) }

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// GenderOptions returns the complete gender vocabulary in its canonical order.
func GenderOptions() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay}
}

// AgeGroup is the respondent's self-reported age bracket.
type AgeGroup string

const (
	AgeGroupUnder20   AgeGroup = "under20"
	AgeGroupTwenties  AgeGroup = "twenties"
	AgeGroupThirties  AgeGroup = "thirties"
	AgeGroupForties   AgeGroup = "forties"
	AgeGroupFifties   AgeGroup = "fifties"
	AgeGroupSixtyPlus AgeGroup = "sixtyPlus"
)

func (a AgeGroup) String() string { return string(a) }

func (a AgeGroup) IsValid() bool {
	switch a {
	case AgeGroupUnder20, AgeGroupTwenties, AgeGroupThirties,
		AgeGroupForties, AgeGroupFifties, AgeGroupSixtyPlus:
		return true
	}
	return false
}

// AgeGroupOptions returns the complete age-group vocabulary in its canonical order.
func AgeGroupOptions() []AgeGroup {
	return []AgeGroup{
		AgeGroupUnder20, AgeGroupTwenties, AgeGroupThirties,
		AgeGroupForties, AgeGroupFifties, AgeGroupSixtyPlus,
	}
}

// StatType identifies the statistic family of a ResultFact.
type StatType string

const (
	StatTypeSimple  StatType = "simple"
	StatTypeCross2  StatType = "cross2"
	StatTypeSummary StatType = "summary"
)

func (t StatType) String() string { return string(t) }

func (t StatType) IsValid() bool {
	switch t {
	case StatTypeSimple, StatTypeCross2, StatTypeSummary:
		return true
	}
	return false
}

// QuestionCode identifies one of the fixed survey questions.
type QuestionCode string

const (
	QuestionGender        QuestionCode = "gender"
	QuestionAgeGroup      QuestionCode = "ageGroup"
	QuestionUnderstanding QuestionCode = "understanding"
	QuestionSatisfaction  QuestionCode = "satisfaction"

	// QuestionTotal is the sentinel dim1 code for unconditioned summary
	// aggregates ("average over everyone").
	QuestionTotal QuestionCode = "_total"
)

func (q QuestionCode) String() string { return string(q) }

func (q QuestionCode) IsValid() bool {
	switch q {
	case QuestionGender, QuestionAgeGroup, QuestionUnderstanding, QuestionSatisfaction:
		return true
	}
	return false
}

// IsRating reports whether the question collects a 1..5 ordinal rating.
func (q QuestionCode) IsRating() bool {
	return q == QuestionUnderstanding || q == QuestionSatisfaction
}

// Rating bounds for understanding and satisfaction answers.
const (
	RatingMin = 1
	RatingMax = 5
)

// RatingOptions returns the rating vocabulary ("1".."5") in ascending order.
func RatingOptions() []string {
	return []string{"1", "2", "3", "4", "5"}
}
