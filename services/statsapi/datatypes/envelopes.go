package datatypes

// ListMeta is attached to every listing response. Timestamp is the RFC 3339
// UTC time at which the dataset load completed; it is identical across all
// listings served from the same loaded dataset.
type ListMeta struct {
	Total     int    `json:"total"`
	Timestamp string `json:"timestamp"`
}
