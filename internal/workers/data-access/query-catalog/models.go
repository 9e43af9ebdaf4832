// internal/workers/data-access/query-catalog/models.go
package querycatalog

import "scholarship-matcher/internal/models"

type Input struct {
	QueryType string `json:"queryType"`
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
	Source             string      `json:"source"`
}

type QueryType = models.QueryType

var (
	QueryTypeScholarshipCatalog = models.QueryTypeScholarshipCatalog
	QueryTypeScholarshipByTitle = models.QueryTypeScholarshipByTitle
	QueryTypeScholarshipByType  = models.QueryTypeScholarshipByType
)
