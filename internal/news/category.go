package news

import "strings"

type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryBusiness      Category = "business"
	CategoryTechnology    Category = "technology"
	CategorySports        Category = "sports"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategoryEntertainment Category = "entertainment"
)

// Categories lists the top-headlines categories in display order.
var Categories = []Category{
	CategoryGeneral,
	CategoryBusiness,
	CategoryTechnology,
	CategorySports,
	CategoryHealth,
	CategoryScience,
	CategoryEntertainment,
}

func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ParseCategory accepts any casing and reports whether c is known.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return CategoryGeneral, false
}

type Sort string

const (
	SortLatest     Sort = "latest"
	SortRelevancy  Sort = "relevancy"
	SortPopularity Sort = "popularity"
)

var Sorts = []Sort{SortLatest, SortRelevancy, SortPopularity}

// APIValue is the NewsAPI sortBy parameter for s.
func (s Sort) APIValue() string {
	switch s {
	case SortRelevancy:
		return "relevancy"
	case SortPopularity:
		return "popularity"
	default:
		return "publishedAt"
	}
}

// Next cycles latest -> relevancy -> popularity -> latest.
func (s Sort) Next() Sort {
	for i, known := range Sorts {
		if known == s {
			return Sorts[(i+1)%len(Sorts)]
		}
	}
	return SortLatest
}

func ParseSort(s string) (Sort, bool) {
	v := Sort(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sorts {
		if v == known {
			return v, true
		}
	}
	return SortLatest, false
}
