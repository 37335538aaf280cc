package model

import "fmt"

// ChargerGroup describes Count identical charging points of the same rated power.
type ChargerGroup struct {
	ID      string  `json:"id" yaml:"id"`
	Count   int     `json:"count" yaml:"count"`
	PowerKw float64 `json:"power_kw" yaml:"power_kw"`
}

// ExpandChargers flattens charger groups into one power rating per unit,
// preserving group order. Groups with a negative count are rejected; a zero
// count contributes nothing.
func ExpandChargers(groups []ChargerGroup) ([]float64, error) {
	var units []float64
	for i, g := range groups {
		if g.Count < 0 {
			return nil, fmt.Errorf("charger group %d (%s): negative count %d", i, g.ID, g.Count)
		}
		for j := 0; j < g.Count; j++ {
			units = append(units, g.PowerKw)
		}
	}
	return units, nil
}
