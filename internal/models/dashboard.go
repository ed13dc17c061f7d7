package models

// DashboardSummary holds the headline counts shown on the overview page.
type DashboardSummary struct {
	Users              int64 `json:"users"`
	Areas              int64 `json:"areas"`
	Equipment          int64 `json:"equipment"`
	Parts              int64 `json:"parts"`
	Complaints         int64 `json:"complaints"`
	OpenComplaints     int64 `json:"open_complaints"`
	PendingComplaints  int64 `json:"pending_complaints"`
	WorkReports        int64 `json:"work_reports"`
	OpenWorkReports    int64 `json:"open_work_reports"`
	PendingWorkReports int64 `json:"pending_work_reports"`
}
