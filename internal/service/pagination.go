package service

import "github.com/airneis/airneis-api/internal/apperr"

const maxPageLimit = 50

// paginate validates the page/limit pair against a row count and returns
// the offset and the number of pages. Page 0 means "first page" without
// bounds checking, matching an omitted query parameter.
func paginate(count, page, limit int) (offset, totalPages int, err error) {
	if limit < 1 || limit > maxPageLimit {
		return 0, 0, apperr.BadRequest("Limit must be between 1 and %d", maxPageLimit)
	}

	totalPages = (count + limit - 1) / limit

	if page != 0 && (page < 1 || page > totalPages) {
		return 0, 0, apperr.BadRequest("Page is out of bounds, max page is %d", totalPages)
	}
	if page > 1 {
		offset = limit * (page - 1)
	}
	return offset, totalPages, nil
}

// pageOrDefault reports the page number echoed back in list responses.
func pageOrDefault(page int) int {
	if page == 0 {
		return 1
	}
	return page
}
