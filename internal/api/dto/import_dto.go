package dto

// BulkImportRequest carries raw upload rows as field maps. Keys may be
// Korean or English sheet headers; normalization happens downstream.
type BulkImportRequest struct {
	Rows []map[string]string `json:"rows"`
}

// ImportReportResponse summarizes one import call.
type ImportReportResponse struct {
	TotalRows    int      `json:"totalRows"`
	SuccessCount int      `json:"successCount"`
	FailureCount int      `json:"failureCount"`
	Errors       []string `json:"errors,omitempty"`
}
