package dto

// SearchQuery parámetros de GET /api/search.
type SearchQuery struct {
	Q string `query:"q" validate:"required,min=2,max=100"`
}

// SearchResponse coincidencias agrupadas por tipo.
type SearchResponse struct {
	Query     string             `json:"query"`
	Customers []CustomerResponse `json:"customers"`
	MenuItems []MenuItemResponse `json:"menu_items"`
	Extras    []ExtraResponse    `json:"extras"`
}
