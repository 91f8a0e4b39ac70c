package dto

// RegisterExtraMomentRequest grants one extra sport moment to a group. Date
// accepts YYYY-MM-DD or RFC3339; empty means now.
type RegisterExtraMomentRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Date    string `json:"date"`
}

// ExportFormat enumerates call-order export renderings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)
