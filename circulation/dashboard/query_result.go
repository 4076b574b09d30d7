package dashboard

// Summary holds the dashboard counts as of the moment of the query.
type Summary struct {
	TotalBooks     int `json:"total_books"`
	AvailableBooks int `json:"available_books"`
	ActiveLoans    int `json:"active_loans"`
	OverdueLoans   int `json:"overdue_loans"`
}
