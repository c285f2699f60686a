package domain

import (
	ridedomain "rideshare-functions/internal/ride/domain"
)

// Target describes one collection swept by the retention job
type Target struct {
	Collection        string `json:"collection"`
	DateField         string `json:"date_field"`
	ArchiveCollection string `json:"archive_collection"`
}

// Result reports what a sweep did before it finished or failed
type Result struct {
	Target    Target `json:"target"`
	Matched   int    `json:"matched"`
	Processed int    `json:"processed"` // archived and deleted
	Batches   int    `json:"batches"`
	Error     string `json:"error,omitempty"`
}

// DefaultTargets are swept in order by every scheduled run
func DefaultTargets() []Target {
	return []Target{
		{
			Collection:        ridedomain.RidesCollection,
			DateField:         ridedomain.FieldRideDate,
			ArchiveCollection: ridedomain.RidesArchiveCollection,
		},
		{
			Collection:        ridedomain.RideRequestsCollection,
			DateField:         ridedomain.FieldRequestDate,
			ArchiveCollection: ridedomain.RideRequestsArchiveCollection,
		},
	}
}
