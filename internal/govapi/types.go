package govapi

// Asset is a catalog entry (table, view, database) returned by asset search.
type Asset struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	DatabaseName string  `json:"databaseName"`
	Schema       string  `json:"schema"`
	ColumnCount  int     `json:"columnCount"`
	RowCount     int64   `json:"rowCount"`
	QualityScore float64 `json:"qualityScore"`
	PIIDetected  bool    `json:"piiDetected"`
	Description  string  `json:"description"`
}

// Pagination carries the total match count for a search.
type Pagination struct {
	Total int `json:"total"`
}

// assetSearchEnvelope is the wire shape of GET /assets.
type assetSearchEnvelope struct {
	Data struct {
		Assets     []Asset    `json:"assets"`
		Pagination Pagination `json:"pagination"`
	} `json:"data"`
}

// Column describes one column of a resolved asset.
type Column struct {
	Name         string `json:"name"`
	DataType     string `json:"dataType"`
	IsNullable   bool   `json:"isNullable"`
	IsPrimaryKey bool   `json:"isPrimaryKey"`
	IsForeignKey bool   `json:"isForeignKey"`
	IsPII        bool   `json:"isPII"`
	Description  string `json:"description"`
}

type columnsEnvelope struct {
	Data []Column `json:"data"`
}

// PIIColumn is one column location where a PII pattern matched.
type PIIColumn struct {
	TableName    string `json:"table_name"`
	ColumnName   string `json:"column_name"`
	DatabaseName string `json:"database_name"`
}

// PIIPatternMatch groups matched columns under a detection pattern.
type PIIPatternMatch struct {
	Pattern string      `json:"pattern"`
	Columns []PIIColumn `json:"columns"`
}

// PIIFinding is one suggested PII type with its matched locations.
type PIIFinding struct {
	TypeSuggestion string            `json:"pii_type_suggestion"`
	Confidence     float64           `json:"confidence"`
	Patterns       []PIIPatternMatch `json:"patterns"`
}

type piiEnvelope struct {
	Success bool         `json:"success"`
	Data    []PIIFinding `json:"data"`
}

// QualityMetrics is the overall and per-dimension quality report.
type QualityMetrics struct {
	OverallScore   float64 `json:"overallScore"`
	Completeness   float64 `json:"completeness"`
	Accuracy       float64 `json:"accuracy"`
	Consistency    float64 `json:"consistency"`
	Timeliness     float64 `json:"timeliness"`
	Validity       float64 `json:"validity"`
	Uniqueness     float64 `json:"uniqueness"`
	CriticalIssues int     `json:"criticalIssues"`
	ActiveRules    int     `json:"activeRules"`
}

// TableScore names a table together with its quality score.
type TableScore struct {
	Table string  `json:"table"`
	Score float64 `json:"score"`
}

// QualitySummary is the optional deeper breakdown from /api/quality/summary.
type QualitySummary struct {
	WorstTables []TableScore `json:"worstTables"`
	OpenIssues  int          `json:"openIssues"`
}

type qualitySummaryEnvelope struct {
	Data QualitySummary `json:"data"`
}

// PipelineStats holds pipeline run counts.
type PipelineStats struct {
	Active    int `json:"active"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

type pipelineEnvelope struct {
	Data PipelineStats `json:"data"`
}

// CatalogStats summarizes catalog contents.
type CatalogStats struct {
	Total     int `json:"total"`
	Tables    int `json:"tables"`
	Views     int `json:"views"`
	Databases int `json:"databases"`
}

type catalogEnvelope struct {
	Data CatalogStats `json:"data"`
}

// DataSource is one configured backend connection.
type DataSource struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Host   string `json:"host"`
}

type dataSourcesEnvelope struct {
	Success bool         `json:"success"`
	Data    []DataSource `json:"data"`
}
