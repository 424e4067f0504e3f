package catalog

type Category string

const (
	CategoryPastasRellenas Category = "pastas-rellenas"
	CategoryPastasLargas   Category = "pastas-largas"
	CategoryNoquis         Category = "noquis"
	CategoryLasagnas       Category = "lasagnas"
	CategorySalsas         Category = "salsas"
	CategoryCombos         Category = "combos"
)

var categories = []Category{
	CategoryPastasRellenas,
	CategoryPastasLargas,
	CategoryNoquis,
	CategoryLasagnas,
	CategorySalsas,
	CategoryCombos,
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPastasRellenas, CategoryPastasLargas, CategoryNoquis,
		CategoryLasagnas, CategorySalsas, CategoryCombos:
		return true
	}
	return false
}

func (c Category) Label() string {
	switch c {
	case CategoryPastasRellenas:
		return "Pastas rellenas"
	case CategoryPastasLargas:
		return "Pastas largas"
	case CategoryNoquis:
		return "Ñoquis"
	case CategoryLasagnas:
		return "Lasagnas"
	case CategorySalsas:
		return "Salsas"
	case CategoryCombos:
		return "Combos"
	}
	return ""
}

// Subcategories returns the subcategories that belong to c, in display order.
func (c Category) Subcategories() []Subcategory {
	var out []Subcategory
	for _, s := range subcategories {
		if s.Category() == c {
			out = append(out, s)
		}
	}
	return out
}

type Subcategory string

const (
	SubRavioles    Subcategory = "ravioles"
	SubSorrentinos Subcategory = "sorrentinos"
	SubCapelettis  Subcategory = "capelettis"
	SubAgnolottis  Subcategory = "agnolottis"

	SubTallarines  Subcategory = "tallarines"
	SubFettuccine  Subcategory = "fettuccine"
	SubPappardelle Subcategory = "pappardelle"
	SubSpaghetti   Subcategory = "spaghetti"

	SubNoquisPapa     Subcategory = "noquis-de-papa"
	SubNoquisRellenos Subcategory = "noquis-rellenos"

	SubLasagnaClasica Subcategory = "lasagna-clasica"
	SubLasagnaVerdura Subcategory = "lasagna-de-verdura"

	SubSalsasRojas   Subcategory = "salsas-rojas"
	SubSalsasBlancas Subcategory = "salsas-blancas"
)

var subcategories = []Subcategory{
	SubRavioles, SubSorrentinos, SubCapelettis, SubAgnolottis,
	SubTallarines, SubFettuccine, SubPappardelle, SubSpaghetti,
	SubNoquisPapa, SubNoquisRellenos,
	SubLasagnaClasica, SubLasagnaVerdura,
	SubSalsasRojas, SubSalsasBlancas,
}

func (s Subcategory) Valid() bool {
	return s.Category() != ""
}

// Category returns the parent category, or "" for unknown subcategories.
func (s Subcategory) Category() Category {
	switch s {
	case SubRavioles, SubSorrentinos, SubCapelettis, SubAgnolottis:
		return CategoryPastasRellenas
	case SubTallarines, SubFettuccine, SubPappardelle, SubSpaghetti:
		return CategoryPastasLargas
	case SubNoquisPapa, SubNoquisRellenos:
		return CategoryNoquis
	case SubLasagnaClasica, SubLasagnaVerdura:
		return CategoryLasagnas
	case SubSalsasRojas, SubSalsasBlancas:
		return CategorySalsas
	}
	return ""
}

func (s Subcategory) Label() string {
	switch s {
	case SubRavioles:
		return "Ravioles"
	case SubSorrentinos:
		return "Sorrentinos"
	case SubCapelettis:
		return "Capelettis"
	case SubAgnolottis:
		return "Agnolottis"
	case SubTallarines:
		return "Tallarines"
	case SubFettuccine:
		return "Fettuccine"
	case SubPappardelle:
		return "Pappardelle"
	case SubSpaghetti:
		return "Spaghetti"
	case SubNoquisPapa:
		return "Ñoquis de papa"
	case SubNoquisRellenos:
		return "Ñoquis rellenos"
	case SubLasagnaClasica:
		return "Lasagna clásica"
	case SubLasagnaVerdura:
		return "Lasagna de verdura"
	case SubSalsasRojas:
		return "Salsas rojas"
	case SubSalsasBlancas:
		return "Salsas blancas"
	}
	return ""
}

type SubcategoryInfo struct {
	Slug  Subcategory `json:"slug"`
	Label string      `json:"label"`
}

type CategoryInfo struct {
	Slug          Category          `json:"slug"`
	Label         string            `json:"label"`
	Subcategories []SubcategoryInfo `json:"subcategories"`
}

// Tree lists every category with its subcategories.
func Tree() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categories))
	for _, c := range categories {
		info := CategoryInfo{Slug: c, Label: c.Label(), Subcategories: []SubcategoryInfo{}}
		for _, s := range c.Subcategories() {
			info.Subcategories = append(info.Subcategories, SubcategoryInfo{Slug: s, Label: s.Label()})
		}
		out = append(out, info)
	}
	return out
}
