package domain

// Summary is the point-in-time dashboard rollup over the item register and the
// two workflow engines.
type Summary struct {
	TotalItems         int64 `json:"total_items"`
	ItemsAvailable     int64 `json:"items_available"`
	ItemsOnLoan        int64 `json:"items_on_loan"`
	ItemsInMaintenance int64 `json:"items_in_maintenance"`
	ItemsDamaged       int64 `json:"items_damaged"`
	OpenLoans          int64 `json:"open_loans"`
	OpenTickets        int64 `json:"open_tickets"`
}
