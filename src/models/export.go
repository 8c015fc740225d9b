package models

type ExportPart struct {
	Object string `json:"object"`
	URL    string `json:"url"`
}

type ExportResult struct {
	UserID      string       `json:"user_id"`
	RecordCount int          `json:"record_count"`
	Parts       []ExportPart `json:"parts"`
}
