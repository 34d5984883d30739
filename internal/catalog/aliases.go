package catalog

// Static alias tables. Keys are matched case-insensitively after trimming
// and collapsing whitespace; values are the canonical names.

var LocationAliases = map[string]string{
	"Area 18":                         "Area18",
	"Area-18":                         "Area18",
	"Arealg":                          "Area18",
	"Baijini Pt":                      "Baijini Point",
	"Baijini Pt.":                     "Baijini Point",
	"Baijinl Point":                   "Baijini Point",
	"Port Tressler Station":           "Port Tressler",
	"Everus Harbour":                  "Everus Harbor",
	"Seraphim":                        "Seraphim Station",
	"Seraphlm Station":                "Seraphim Station",
	"Lorvllle":                        "Lorville",
	"New Babbage":                     "New Babbage",
	"NB Int. Spaceport":               "New Babbage Interstellar Spaceport",
	"NB Int Spaceport":                "New Babbage Interstellar Spaceport",
	"NB Intl Spaceport":               "New Babbage Interstellar Spaceport",
	"NB Int":                          "New Babbage Interstellar Spaceport",
	"Orison Spaceport":                "August Dunlow Spaceport",
	"Teasa":                           "Teasa Spaceport",
	"Riker":                           "Riker Memorial Spaceport",
	"Sakura Sun Goldenrod":            "Sakura Sun Goldenrod Workcenter",
	"Sakura Sun Goldenrod Workcentre": "Sakura Sun Goldenrod Workcenter",
	"Greycat Stanton IV Production":   "Greycat Stanton IV Production Complex-A",
	"Greycat Stanton 4 Production":    "Greycat Stanton IV Production Complex-A",
	"Rayari Deltana Research":         "Rayari Deltana Research Outpost",
	"Rayari Kaltag Research":          "Rayari Kaltag Research Outpost",
	"Rayari McGrath Research":         "Rayari McGrath Research Outpost",
	"Rayari Cantwell Research":        "Rayari Cantwell Research Outpost",
	"Rayari Anvik Research":           "Rayari Anvik Research Outpost",
	"Shubin Mining SMO-10":            "Shubin Mining Facility SMO-10",
	"Shubin Mining SMO-13":            "Shubin Mining Facility SMO-13",
	"Shubin Mining SMO-18":            "Shubin Mining Facility SMO-18",
	"Shubin Mining SMO-22":            "Shubin Mining Facility SMO-22",
	"Shubin Mining SMCa-6":            "Shubin Mining Facility SMCa-6",
	"Shubin Mining SMCa-8":            "Shubin Mining Facility SMCa-8",
	"HUR L1":                          "HUR-L1 Green Glade Station",
	"HUR-L1":                          "HUR-L1 Green Glade Station",
	"CRU-L1":                          "CRU-L1 Ambitious Dream Station",
	"ARC-L1":                          "ARC-L1 Wide Forest Station",
	"MIC-L1":                          "MIC-L1 Shallow Frontier Station",
}

var CommodityAliases = map[string]string{
	"Go1d":                   "Gold",
	"Gald":                   "Gold",
	"Stee1":                  "Steel",
	"Aluminium":              "Aluminum",
	"Alumlnum":               "Aluminum",
	"Titanlum":               "Titanium",
	"Tltanium":               "Titanium",
	"Agri Supplies":          "Agricultural Supplies",
	"Agricultural Supply":    "Agricultural Supplies",
	"Med Supplies":           "Medical Supplies",
	"Medlcal Supplies":       "Medical Supplies",
	"Proc. Food":             "Processed Food",
	"Processed Foods":        "Processed Food",
	"Hydrogen":               "Hydrogen Fuel",
	"Quantum Fuel":           "Quantum Fuel",
	"QT Fuel":                "Quantum Fuel",
	"Pressurised Ice":        "Pressurized Ice",
	"Ship Ammo":              "Ship Ammunition",
	"Construction Material":  "Construction Materials",
	"Constructlon Materials": "Construction Materials",
	"Recycled Material":      "Recycled Material Composite",
	"RMC":                    "Recycled Material Composite",
	"Scrap Metal":            "Scrap",
	"Stlms":                  "Stims",
	"Distilled Spirit":       "Distilled Spirits",
}
