// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeScholarshipCatalog QueryType = "scholarship_catalog"
	QueryTypeScholarshipByTitle QueryType = "scholarship_by_title"
	QueryTypeScholarshipByType  QueryType = "scholarship_by_type"
)
