package fields

// PaginationMap builds the page metadata object that listing responses nest
// under a "pagination" key. totalKey names the per-resource total field
// (totalPartners, totalVisits, ...).
func PaginationMap(page, limit int, total int64, totalKey string) map[string]any {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return map[string]any{
		"currentPage": page,
		"totalPages":  totalPages,
		totalKey:      total,
		"hasNextPage": page < totalPages,
		"hasPrevPage": page > 1,
		"limit":       limit,
	}
}
