// Package source provides data-source adapters for the validation
// engine: YAML fixtures, CSV tables, and SQLite queries.
//
// Adapters only materialize plain Go values - slices, maps, scalars -
// in the shapes the engine classifies. They never run comparisons
// themselves.
//
// # Fixture Format
//
// Fixtures are YAML files pairing data with a requirement:
//
//	name: sales_regions
//	description: "Region codes must be sanctioned"
//	data: [NORTH, SOUTH, EAST, WEST, MOON]
//	requirement:
//	  kind: set
//	  set: [NORTH, SOUTH, EAST, WEST]
//	message: "unknown sales region"
//
// Requirement kinds: value (literal equality), set (membership),
// sequence (order-sensitive), regex (pattern search), and mapping
// (key-by-key comparison).
package source
