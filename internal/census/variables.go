package census

// Variable is one ACS 5-year estimate collected for every host city
type Variable struct {
	Code        string
	Description string
}

// ACS5Variables lists the collected estimates in storage column order
var ACS5Variables = []Variable{
	// Population and demographics
	{"B01003_001E", "Total population"},
	{"B01002_001E", "Median age of the total population"},
	{"B01001_002E", "Total male population"},
	{"B01001_026E", "Total female population"},
	// Working-age population
	{"B01001_007E", "Male population ages 16-17"},
	{"B01001_008E", "Male population ages 18-24"},
	{"B01001_009E", "Male population ages 25-34"},
	{"B01001_010E", "Male population ages 35-44"},
	{"B01001_011E", "Male population ages 45-54"},
	{"B01001_012E", "Male population ages 55-64"},
	{"B01001_013E", "Male population ages 65+"},
	{"B01001_031E", "Female population ages 16-17"},
	{"B01001_032E", "Female population ages 18-24"},
	{"B01001_033E", "Female population ages 25-34"},
	{"B01001_034E", "Female population ages 35-44"},
	{"B01001_035E", "Female population ages 45-54"},
	{"B01001_036E", "Female population ages 55-64"},
	{"B01001_037E", "Female population ages 65+"},
	// Households
	{"B11016_001E", "Median household size"},
	// Income
	{"B19013_001E", "Median household income"},
	{"B19025_001E", "Aggregate household income"},
	{"B11001_001E", "Total number of households"},
	// Labor force
	{"B23025_002E", "Civilian population in the labor force"},
	{"B23025_004E", "Civilian employed population"},
	// Employment by sector
	{"C24050_002E", "Employment in agriculture, forestry, fishing, and hunting"},
	{"C24050_003E", "Employment in mining, quarrying, and oil and gas extraction"},
	{"C24050_004E", "Employment in construction"},
	{"C24050_005E", "Employment in manufacturing"},
	{"C24050_006E", "Employment in wholesale trade"},
	{"C24050_007E", "Employment in retail trade"},
	{"C24050_008E", "Employment in transportation and warehousing, and utilities"},
	{"C24050_009E", "Employment in educational services"},
	{"C24050_010E", "Employment in health care and social assistance"},
	{"C24050_011E", "Employment in arts, entertainment, recreation, accommodation, and food services"},
	{"C24050_012E", "Employment in public administration"},
	{"C24050_013E", "Employment in other services (except public administration)"},
}

// VariableCodes returns the codes of ACS5Variables in order
func VariableCodes() []string {
	codes := make([]string, len(ACS5Variables))
	for i, v := range ACS5Variables {
		codes[i] = v.Code
	}
	return codes
}
