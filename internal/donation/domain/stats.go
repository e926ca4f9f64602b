package domain

// OverviewStats — агрегированная статистика платформы
type OverviewStats struct {
	TotalDonations     int `json:"total_donations"`
	AvailableDonations int `json:"available_donations"`
	AcceptedDonations  int `json:"accepted_donations"`
	CompletedDonations int `json:"completed_donations"`
	ExpiredDonations   int `json:"expired_donations"`
	TotalRequests      int `json:"total_requests"`
	PendingRequests    int `json:"pending_requests"`
	ActiveDonors       int `json:"active_donors"`
	ActiveRecipients   int `json:"active_recipients"`
}
