// Package dataset holds the static Tamil Nadu district accident table.
package dataset

import (
	"fmt"
	"math"

	"github.com/StudioSol/set"
	"github.com/raykavin/roadrisk/pkg/core"
)

// Rows is the number of districts in the table
const Rows = 37

// static columns only, derived columns are filled by Load
var districts = core.Table{
	{Name: "Ariyalur", Latitude: 10.059970653660493, Longitude: 76.89068845602553, Accidents2019: 1192, Accidents2020: 1179, Population: 80.1},
	{Name: "Chengalpattu", Latitude: 13.22892868525454, Longitude: 79.23693210604863, Accidents2019: 991, Accidents2020: 965, Population: 32.6},
	{Name: "Chennai", Latitude: 12.025966679962728, Longitude: 78.2606099749584, Accidents2019: 2298, Accidents2020: 2290, Population: 15.4},
	{Name: "Coimbatore", Latitude: 11.2926216630837, Longitude: 76.98815293937912, Accidents2019: 1018, Accidents2020: 940, Population: 35.3},
	{Name: "Cuddalore", Latitude: 8.8581025224334, Longitude: 78.48070764044508, Accidents2019: 888, Accidents2020: 874, Population: 82.1},
	{Name: "Dharmapuri", Latitude: 8.857969861849114, Longitude: 76.63755408446087, Accidents2019: 978, Accidents2020: 889, Population: 28.1},
	{Name: "Dindigul", Latitude: 8.319459866925097, Longitude: 80.13728160831513, Accidents2019: 2396, Accidents2020: 2355, Population: 60.1},
	{Name: "Erode", Latitude: 12.763968801762143, Longitude: 77.53511992640007, Accidents2019: 2113, Accidents2020: 2037, Population: 5.0},
	{Name: "Kallakurichi", Latitude: 11.30613256458765, Longitude: 79.15008913741593, Accidents2019: 830, Accidents2020: 780, Population: 35.0},
	{Name: "Kancheepuram", Latitude: 11.89439917787825, Longitude: 77.74684430435764, Accidents2019: 1617, Accidents2020: 1555, Population: 30.9},
	{Name: "Karur", Latitude: 8.113214718626914, Longitude: 78.58027208471124, Accidents2019: 640, Accidents2020: 545, Population: 19.0},
	{Name: "Krishnagiri", Latitude: 13.334504186890968, Longitude: 78.68684111737312, Accidents2019: 1651, Accidents2020: 1600, Population: 50.4},
	{Name: "Madurai", Latitude: 12.578434524402319, Longitude: 77.23941782210211, Accidents2019: 734, Accidents2020: 639, Population: 46.2},
	{Name: "Nagapattinam", Latitude: 9.167865108730519, Longitude: 80.37833851105823, Accidents2019: 800, Accidents2020: 797, Population: 63.9},
	{Name: "Namakkal", Latitude: 9.000037319639054, Longitude: 79.60053129344446, Accidents2019: 2463, Accidents2020: 2370, Population: 27.9},
	{Name: "Nilgiris", Latitude: 9.008724804193886, Longitude: 80.25799576625676, Accidents2019: 1379, Accidents2020: 1357, Population: 25.8},
	{Name: "Perambalur", Latitude: 9.673332336277458, Longitude: 80.07930940171059, Accidents2019: 1529, Accidents2020: 1515, Population: 19.3},
	{Name: "Pudukkottai", Latitude: 10.886160373977308, Longitude: 78.89159991524434, Accidents2019: 1656, Accidents2020: 1614, Population: 23.6},
	{Name: "Ramanathapuram", Latitude: 10.375697602531638, Longitude: 80.18749694009247, Accidents2019: 1671, Accidents2020: 1643, Population: 52.4},
	{Name: "Ranipet", Latitude: 9.60176027108923, Longitude: 76.85397000820768, Accidents2019: 1102, Accidents2020: 1067, Population: 39.3},
	{Name: "Salem", Latitude: 11.365190920973088, Longitude: 77.28393144967659, Accidents2019: 1006, Accidents2020: 994, Population: 10.5},
	{Name: "Sivaganga", Latitude: 8.76721623358623, Longitude: 76.68090915564215, Accidents2019: 2197, Accidents2020: 2166, Population: 26.6},
	{Name: "Tenkasi", Latitude: 9.606795566943699, Longitude: 77.80132132305306, Accidents2019: 2351, Accidents2020: 2281, Population: 26.0},
	{Name: "Thanjavur", Latitude: 10.014990138115305, Longitude: 78.05470915875793, Accidents2019: 1404, Accidents2020: 1346, Population: 64.2},
	{Name: "Theni", Latitude: 10.508384913193698, Longitude: 77.58539612709558, Accidents2019: 698, Accidents2020: 613, Population: 65.5},
	{Name: "Thoothukudi", Latitude: 12.318467787661575, Longitude: 79.81495003660771, Accidents2019: 1283, Accidents2020: 1256, Population: 17.6},
	{Name: "Tiruchirappalli", Latitude: 9.098205801870979, Longitude: 77.92701330677436, Accidents2019: 2495, Accidents2020: 2430, Population: 89.8},
	{Name: "Tirunelveli", Latitude: 10.828289411274863, Longitude: 77.62373803874952, Accidents2019: 1325, Accidents2020: 1284, Population: 27.7},
	{Name: "Tirupathur", Latitude: 11.258280128741234, Longitude: 78.67078433263299, Accidents2019: 2170, Accidents2020: 2126, Population: 88.0},
	{Name: "Tiruppur", Latitude: 8.255477269959988, Longitude: 77.06369689989906, Accidents2019: 1560, Accidents2020: 1499, Population: 39.9},
	{Name: "Tiruvallur", Latitude: 11.341496685457912, Longitude: 79.70878792301616, Accidents2019: 2362, Accidents2020: 2306, Population: 7.8},
	{Name: "Tiruvannamalai", Latitude: 8.937882680280104, Longitude: 76.79820257471908, Accidents2019: 1212, Accidents2020: 1207, Population: 34.3},
	{Name: "Tiruvarur", Latitude: 8.357783761419038, Longitude: 80.44754774640207, Accidents2019: 2085, Accidents2020: 2058, Population: 58.9},
	{Name: "Vellore", Latitude: 13.218870454893333, Longitude: 79.58897907718664, Accidents2019: 1242, Accidents2020: 1215, Population: 62.9},
	{Name: "Viluppuram", Latitude: 13.310976181910076, Longitude: 77.29486272613669, Accidents2019: 2392, Accidents2020: 2349, Population: 50.1},
	{Name: "Virudhunagar", Latitude: 12.446185414640535, Longitude: 76.52208846849442, Accidents2019: 1628, Accidents2020: 1545, Population: 43.1},
	{Name: "Mayiladuthurai", Latitude: 9.675375730453538, Longitude: 79.76184571381934, Accidents2019: 1841, Accidents2020: 1812, Population: 52.0},
}

// Load returns a fresh copy of the table with derived columns computed
func Load() core.Table {
	table := districts.Clone()
	for i := range table {
		table[i].Derive()
	}
	return table
}

// Validate checks the row count, name uniqueness and derived columns
func Validate(table core.Table) error {
	if len(table) == 0 {
		return core.ErrEmptyTable
	}
	if len(table) != Rows {
		return fmt.Errorf("%w: got %d, want %d", core.ErrRowCount, len(table), Rows)
	}

	names := set.NewLinkedHashSetString()
	for _, d := range table {
		if names.InArray(d.Name) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateName, d.Name)
		}
		names.Add(d.Name)

		if err := checkDerived(d); err != nil {
			return err
		}
	}

	return nil
}

func checkDerived(d core.District) error {
	const eps = 1e-9

	if d.AccidentReduction != d.Accidents2019-d.Accidents2020 {
		return fmt.Errorf("%w: %s accident reduction", core.ErrDerivedMismatch, d.Name)
	}
	if math.Abs(d.PopulationLakhs-d.Population/10) > eps {
		return fmt.Errorf("%w: %s population lakhs", core.ErrDerivedMismatch, d.Name)
	}
	if math.Abs(d.AccidentRate2020-float64(d.Accidents2020)/(d.Population/10)) > eps {
		return fmt.Errorf("%w: %s accident rate", core.ErrDerivedMismatch, d.Name)
	}
	return nil
}
