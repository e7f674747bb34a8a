package dto

type UpdateMediaRequest struct {
	Name *string `json:"name"`
}

type QueryMediaFilters struct {
	Search string `form:"search"`
	Type   string `form:"type" binding:"omitempty,oneof=image"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit,default=10"`
}
