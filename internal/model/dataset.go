package model

import "sort"

// Dataset maps a country code to its leaders in the order the api returned
// them. It only ever grows during a run.
type Dataset map[string][]Leader

// Countries returns the country codes in sorted order.
func (d Dataset) Countries() []string {
	countries := make([]string, 0, len(d))
	for c := range d {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

// LeaderCount is the number of leaders across every country.
func (d Dataset) LeaderCount() int {
	total := 0
	for _, leaders := range d {
		total += len(leaders)
	}
	return total
}
