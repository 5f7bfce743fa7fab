// Package export writes the resampled, outlier-tagged buckets of one quantity
// as JSON or CSV so they can be analysed in external tools.
//
// # Formats
//
// JSON wraps the buckets in a metadata block (quantity, unit, range, band,
// bucket and outlier counts). CSV is a flat table with a header row:
//
//	window_end,mean_value,count,min,max,label
//
// Timestamps are RFC 3339 in UTC. The label column is "normal" or "outlier".
//
// # HTTP API
//
// GET /v1/export/{quantity}?format=json|csv&range=24h|3d|7d|all
//
// format defaults to json and range to 24h. The response is sent as an
// attachment named envmon-<quantity>-<range>.<format>.
package export
