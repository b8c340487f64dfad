package dto

type AdminStats struct {
	TotalUsers int64 `json:"total_users"`
	Applicants int64 `json:"applicants"`
	Businesses int64 `json:"businesses"`
	TotalJobs  int64 `json:"total_jobs"`
}
