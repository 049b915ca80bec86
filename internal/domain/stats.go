package domain

// PeriodStats is one aggregation window of ticket activity.
type PeriodStats struct {
	Period    string `json:"period"`
	Submitted int64  `json:"submitted"`
	Resolved  int64  `json:"resolved"`
}

// ResolutionStats groups the standard reporting windows.
type ResolutionStats struct {
	Daily   PeriodStats `json:"daily"`
	Weekly  PeriodStats `json:"weekly"`
	Monthly PeriodStats `json:"monthly"`
}
