package dto

import "github.com/shopspring/decimal"

type CreateCategoryRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Slug        *string         `json:"slug"`
	ThumbnailID Optional[int64] `json:"thumbnailId"`
}

type UpdateCategoryRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Slug        *string         `json:"slug"`
	ThumbnailID Optional[int64] `json:"thumbnailId"`
}

type MaterialRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required,max=100"`
	Description       *string         `json:"description" binding:"omitempty,max=5000"`
	Slug              *string         `json:"slug" binding:"omitempty,max=100"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	Stock             int             `json:"stock" binding:"min=0"`
	Priority          *int            `json:"priority"`
	IsFeatured        *bool           `json:"isFeatured"`
	CategoryID        Optional[int64] `json:"categoryId"`
	MaterialIDs       *[]int64        `json:"materialIds"`
	ImageIDs          *[]int64        `json:"imageIds"`
	BackgroundImageID Optional[int64] `json:"backgroundImageId"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name" binding:"omitempty,max=100"`
	Description       *string          `json:"description" binding:"omitempty,max=5000"`
	Slug              *string          `json:"slug" binding:"omitempty,max=100"`
	Price             *decimal.Decimal `json:"price"`
	Stock             *int             `json:"stock" binding:"omitempty,min=0"`
	Priority          *int             `json:"priority"`
	IsFeatured        *bool            `json:"isFeatured"`
	CategoryID        Optional[int64]  `json:"categoryId"`
	MaterialIDs       *[]int64         `json:"materialIds"`
	ImageIDs          *[]int64         `json:"imageIds"`
	BackgroundImageID Optional[int64]  `json:"backgroundImageId"`
}

type QueryProductFilters struct {
	Search     string `form:"search"`
	Categories string `form:"categories"`
	Materials  string `form:"materials"`
	MinPrice   *int64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice   *int64 `form:"maxPrice" binding:"omitempty,min=0"`
	Stock      *int   `form:"stock" binding:"omitempty,min=0,max=1"`
	IsFeatured *bool  `form:"isFeatured"`
	Sort       string `form:"sort" binding:"omitempty,oneof=priority price createdAt"`
	Order      string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit,default=10"`
}
