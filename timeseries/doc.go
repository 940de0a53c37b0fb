// Package timeseries provides the data structures behind a weekly
// search-interest analysis: the raw table read from CSV, the cleaned
// nullable Frame, and the dense Series consumed by the stats package.
//
// # Loading
//
// Read the raw table, skipping the banner line above the header:
//
//	raw, err := timeseries.ReadRawFile("Bitcoin.csv", timeseries.DefaultLoadOptions())
//	raw, err = timeseries.Rename(raw, timeseries.WeekColumn, timeseries.InterestColumn)
//
// # Cleaning
//
// Parse the columns. A strict date parse reports the first bad cell; the
// coercing parse turns bad cells into missing values instead:
//
//	cells := raw.Col(timeseries.WeekColumn).Records()
//	weeks, err := timeseries.ParseWeeks(cells, timeseries.Strict)
//	if err != nil {
//	    weeks, _ = timeseries.ParseWeeks(cells, timeseries.Coerce)
//	}
//	interest := timeseries.ParseInterest(raw.Col(timeseries.InterestColumn).Records())
//	frame, err := timeseries.NewFrame(weeks, interest)
//
// Cleaning never drops a row: frame.Len() equals raw.Nrow().
//
// # Series
//
// Convert the frame into a dense series:
//
//	sample := frame.DropMissing()        // observed values only
//	full, err := frame.Complete()        // fails on gaps
//	filled, err := frame.Series().Interpolate()
//
// Summary statistics:
//
//	mean := sample.Mean()
//	std := sample.Std()
//	median := sample.Median()
package timeseries
