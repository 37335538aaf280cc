// Package sim implements the charger occupancy simulation. A run draws hourly
// arrivals and per-arrival demand from the configured distributions, allocates
// arriving EVs to the first idle charger (dropping them when every unit is
// busy) and integrates delivered energy and instantaneous power into one
// aggregate per simulated day. Runs are deterministic for a given
// configuration and random stream.
package sim
