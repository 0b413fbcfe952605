package models

// ParsedDateTime is one resolved calendar point. Date is YYYY-MM-DD, Time is
// HH:MM:SS and FullDateTime joins them with a space.
type ParsedDateTime struct {
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	FullDateTime string  `json:"full_date_time"`
	Confidence   float64 `json:"confidence"`
	Timezone     string  `json:"timezone,omitempty"`
}

// ParseResult is the outcome of parsing a text span. StartTime and EndTime are
// only set when Success is true.
type ParseResult struct {
	Success   bool            `json:"success"`
	StartTime *ParsedDateTime `json:"start_time,omitempty"`
	EndTime   *ParsedDateTime `json:"end_time,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// AppointmentCandidate is the single slot settled on by the extractor.
// StartTime and EndTime use the "YYYY-MM-DD HH:MM:SS" layout.
type AppointmentCandidate struct {
	Success    bool    `json:"success"`
	StartTime  string  `json:"start_time,omitempty"`
	EndTime    string  `json:"end_time,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Source     string  `json:"source,omitempty"`
}
