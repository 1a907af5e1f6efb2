package utils

// Page describes one clamped page of a result set.
type Page struct {
	Number     int // 1-based, clamped into [1, TotalPages]
	Size       int
	TotalPages int // never below 1
	Offset     int
}

// Paginate clamps a requested page into range instead of returning an empty page.
// Non-positive sizes fall back to fallbackSize.
func Paginate(total int64, page, size, fallbackSize int) Page {
	if size <= 0 {
		size = fallbackSize
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return Page{
		Number:     page,
		Size:       size,
		TotalPages: totalPages,
		Offset:     size * (page - 1),
	}
}

// Window returns the slice bounds of p within n items.
func (p Page) Window(n int) (start, end int) {
	start = p.Offset
	if start > n {
		start = n
	}
	end = start + p.Size
	if end > n {
		end = n
	}
	return start, end
}
