package scraper

// Product is one static catalog entry to scrape. ProductID is shared
// across color variants of the same model; (ProductID, Color) is the
// unique key.
type Product struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	URL       string `json:"url"`
}

// DefaultCatalog returns the ordered list of product pages to scrape.
func DefaultCatalog() []Product {
	return []Product{
		{
			ProductID: 1,
			Name:      "Osprey Aether II 65",
			Color:     "black",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-aether-ii-65l-black_3/#prehled/",
		},
		{
			ProductID: 1,
			Name:      "Osprey Aether II 65",
			Color:     "blue",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-aether-ii-65l-modra_2/#prehled/",
		},
		{
			ProductID: 1,
			Name:      "Osprey Aether II 65",
			Color:     "garlic mustard green",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-aether-ii-65l-garlic-mustard-green_2/#prehled/",
		},
		{
			ProductID: 2,
			Name:      "Osprey Kestrel 58",
			Color:     "black",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-kestrel-58l-black_2/#prehled/",
		},
		{
			ProductID: 2,
			Name:      "Osprey Kestrel 58",
			Color:     "bonsai green",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-kestrel-58l-bonsai-green/#prehled/",
		},
		{
			ProductID: 3,
			Name:      "Osprey Atmos Ag 65",
			Color:     "black",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-atmos-ag-65l-black/#prehled/",
		},
		{
			ProductID: 3,
			Name:      "Osprey Atmos Ag 65",
			Color:     "venturi blue",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-atmos-ag-65l-venturi-blue/#prehled/",
		},
		{
			ProductID: 3,
			Name:      "Osprey Atmos Ag 65",
			Color:     "mythical green",
			URL:       "https://turisticke-batohy.heureka.cz/osprey-atmos-ag-65l-mythical-green/#prehled/",
		},
	}
}
