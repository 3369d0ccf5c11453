package domain

import "github.com/google/uuid"

// FactFilter narrows ResultFact queries. Zero-valued fields are ignored;
// dashboards combine them to slice one result set by statistic family and
// question codes.
type FactFilter struct {
	ResultSetID    uuid.UUID
	LectureID      uuid.UUID
	StatType       StatType
	Dim1Question   QuestionCode
	Dim2Question   QuestionCode
	TargetQuestion QuestionCode
}
