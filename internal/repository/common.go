package repository

// normalizePage clamps pagination inputs and returns (limit, offset).
func normalizePage(limit, page int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
