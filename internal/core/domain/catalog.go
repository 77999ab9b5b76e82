package domain

import "time"

// StoredObject describes an object in the store
type StoredObject struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// IncompleteUpload is a multipart upload that was neither completed nor aborted
type IncompleteUpload struct {
	Key       string
	UploadID  string
	Initiated time.Time
}

// SortField is a field recordings can be sorted by
type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortBySize      SortField = "size"
	SortByName      SortField = "name"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListFilter narrows and pages the recordings catalog
type ListFilter struct {
	UserID    string
	RoomName  string
	Limit     int
	Offset    int
	SortBy    SortField
	SortOrder SortOrder
}

// Recording is a finalized recording of the catalog
type Recording struct {
	Key               string
	URL               string
	UserID            string
	RoomName          string
	Timestamp         int64
	RecordingID       string
	Quality           Quality
	RecordingName     string
	Size              int64
	LastModified      time.Time
	EstimatedDuration time.Duration
}

// Pagination describes the page returned by a list
type Pagination struct {
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// CatalogSummary aggregates the filtered recordings
type CatalogSummary struct {
	TotalRecordings int
	TotalSize       int64
	UniqueUsers     int
	UniqueRooms     int
}

// RecordingPage is one page of the recordings catalog
type RecordingPage struct {
	Recordings []Recording
	Pagination Pagination
	Summary    CatalogSummary
}
