package model

// Detection is one entry of a detection record: a category together with
// the block that first matched it and the matched substring.
type Detection struct {
	Category Category `json:"category"`
	Block    Block    `json:"block"`
	Match    string   `json:"match"`
}

// Record is the result of classifying one document.
//
// Detections holds at most one entry per category, in the order the
// categories were first observed. Duplicates holds later blocks that matched
// an already-detected category; they never affect ordering checks.
type Record struct {
	Detections []Detection `json:"detections"`
	Duplicates []Detection `json:"duplicates,omitempty"`
}

// Len returns the number of detected categories.
func (r *Record) Len() int {
	return len(r.Detections)
}

// Has reports whether category c was detected.
func (r *Record) Has(c Category) bool {
	_, ok := r.Get(c)
	return ok
}

// Get returns the detection for category c.
func (r *Record) Get(c Category) (Detection, bool) {
	for _, d := range r.Detections {
		if d.Category == c {
			return d, true
		}
	}
	return Detection{}, false
}

// Categories returns the detected categories in observed order.
func (r *Record) Categories() []Category {
	categories := make([]Category, len(r.Detections))
	for i, d := range r.Detections {
		categories[i] = d.Category
	}
	return categories
}

// OrderViolation names a detected category that appeared after a category
// ranked later in the canonical order.
type OrderViolation struct {
	// Category is the out-of-place category.
	Category Category `json:"category"`

	// Previous is the ranked category it unexpectedly followed.
	Previous Category `json:"previous"`

	// Position is the index of Category in the detection record.
	Position int `json:"position"`
}
