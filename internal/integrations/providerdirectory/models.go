package providerdirectory

// Provider модель провайдера услуг из справочника ProviderDirectory
type Provider struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"` // dog_walking | grooming
	Suburb      string  `json:"suburb"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Status      string  `json:"status"` // active | cancelled
	OwnerUserID int64   `json:"owner_user_id"`
}

// ErrorResponse модель ошибки от ProviderDirectory
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
