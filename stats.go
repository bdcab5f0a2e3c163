package lsh

// QueryStatistics summarizes the queries run since construction or the
// last ResetQueryStatistics. Times are in seconds; all averages are per
// query.
type QueryStatistics struct {
	AverageTotalQueryTime      float64
	AverageLSHTime             float64
	AverageHashTableTime       float64
	AverageDistanceTime        float64
	AverageNumCandidates       float64
	AverageNumUniqueCandidates float64
	NumQueries                 int64
}

// QueryStatistics returns a snapshot of the cumulative query statistics.
func (t *Table[P]) QueryStatistics() QueryStatistics {
	s := t.query.Statistics()
	if s.NumQueries == 0 {
		return QueryStatistics{}
	}
	n := float64(s.NumQueries)
	return QueryStatistics{
		AverageTotalQueryTime:      s.TotalQueryTime.Seconds() / n,
		AverageLSHTime:             s.LSHTime.Seconds() / n,
		AverageHashTableTime:       s.HashTableTime.Seconds() / n,
		AverageDistanceTime:        s.DistanceTime.Seconds() / n,
		AverageNumCandidates:       float64(s.NumCandidates) / n,
		AverageNumUniqueCandidates: float64(s.NumUniqueCandidates) / n,
		NumQueries:                 s.NumQueries,
	}
}

// ResetQueryStatistics zeroes the cumulative query statistics.
func (t *Table[P]) ResetQueryStatistics() {
	t.query.ResetStatistics()
}
