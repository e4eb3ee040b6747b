package catalog

// Default returns the catalog of ECOWAS member states and agricultural,
// trade and population indicators.
func Default() *Catalog {
	return &Catalog{
		Entities: []Entity{
			{Code: "BEN", Name: "Benin"},
			{Code: "BFA", Name: "Burkina Faso"},
			{Code: "CPV", Name: "Cape Verde"},
			{Code: "CIV", Name: "Côte d'Ivoire"},
			{Code: "GMB", Name: "The Gambia"},
			{Code: "GHA", Name: "Ghana"},
			{Code: "GIN", Name: "Guinea"},
			{Code: "GNB", Name: "Guinea-Bissau"},
			{Code: "LBR", Name: "Liberia"},
			{Code: "MLI", Name: "Mali"},
			{Code: "NER", Name: "Niger"},
			{Code: "NGA", Name: "Nigeria"},
			{Code: "SEN", Name: "Senegal"},
			{Code: "SLE", Name: "Sierra Leone"},
			{Code: "TGO", Name: "Togo"},
		},
		Indicators: []Indicator{
			// Agriculture and food supply
			{
				Code:   "AG.PRD.FOOD.XD",
				Name:   "Food production index",
				Column: "food_production_idx",
			},
			{
				Code:   "AG.YLD.CREL.KG",
				Name:   "Cereal yield (kg per hectare)",
				Column: "cereal_yield_kg_per_hectare",
			},
			{
				Code:   "AG.PRD.CROP.XD",
				Name:   "Crop production index",
				Column: "crop_production_idx",
			},
			{
				Code:   "AG.LND.AGRI.ZS",
				Name:   "Agricultural land (% of land area)",
				Column: "agricultural_land_pct",
			},

			// Economic access and trade
			{
				Code:   "NY.GDP.PCAP.CD",
				Name:   "GDP per capita (current US$)",
				Column: "gdp_per_capita_usd",
			},
			{
				Code:   "FP.CPI.TOTL",
				Name:   "Consumer Price Index, Food (2010 = 100)",
				Column: "food_cpi_2010_base_100",
			},
			{
				Code:   "TM.VAL.FOOD.ZS.UN",
				Name:   "Food imports (% of merchandise imports)",
				Column: "food_imports_pct_merch",
			},
			{
				Code:   "TX.VAL.FOOD.ZS.UN",
				Name:   "Food exports (% of merchandise exports)",
				Column: "food_exports_pct_merch",
			},

			// Population and consumption demand
			{
				Code:   "SP.POP.TOTL",
				Name:   "Total population",
				Column: "population_total",
			},
			{
				Code:   "SP.URB.TOTL.IN.ZS",
				Name:   "Urban population (% of total)",
				Column: "population_urban_pct",
			},
			{
				Code:          "SP.POP.GROW",
				Name:          "Population growth (annual %)",
				Column:        "population_growth_annual_pct",
				AllowNegative: true,
			},
		},
	}
}
