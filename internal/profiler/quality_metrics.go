package profiler

// QualityMetrics summarises the completeness of a profiled file
type QualityMetrics struct {
	TotalRows      int
	TotalColumns   int
	NullPercentage float64
	NumericColumns int
}

// CalculateQuality derives file level metrics from the column statistics
func (p *CSVProfiler) CalculateQuality() QualityMetrics {
	metrics := QualityMetrics{
		TotalRows:    p.RowCount,
		TotalColumns: len(p.ColumnStats),
	}

	totalNulls := 0
	totalCells := 0
	for _, stats := range p.ColumnStats {
		totalNulls += stats.NullCount
		// Count is non-null values, so total cells = Count + NullCount
		totalCells += stats.Count + stats.NullCount
		if stats.Numeric() {
			metrics.NumericColumns++
		}
	}

	if totalCells > 0 {
		metrics.NullPercentage = float64(totalNulls) / float64(totalCells) * 100
	}

	return metrics
}
