package recordings

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// List returns one page of finalized recordings, newest first by default
func (r *recordingService) List(ctx context.Context, filter domain.ListFilter) (*domain.RecordingPage, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	objects, err := r.storage.ListObjects(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}

	matched := make([]domain.Recording, 0, len(objects))
	users := make(map[string]struct{})
	rooms := make(map[string]struct{})
	var totalSize int64
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, domain.RecordingExtension) {
			continue
		}
		parts, parseErr := domain.ParseObjectKey(obj.Key)
		if parseErr != nil {
			r.logger.Debug("skipping foreign object", slog.String("key", obj.Key))
			continue
		}
		if filter.UserID != "" && parts.UserID != filter.UserID {
			continue
		}
		if filter.RoomName != "" && parts.RoomName != filter.RoomName {
			continue
		}
		users[parts.UserID] = struct{}{}
		rooms[parts.RoomName] = struct{}{}
		totalSize += obj.Size
		matched = append(matched, domain.Recording{
			Key:               obj.Key,
			UserID:            parts.UserID,
			RoomName:          parts.RoomName,
			Timestamp:         parts.Timestamp,
			RecordingID:       parts.RecordingID,
			Quality:           parts.Quality,
			RecordingName:     parts.RecordingName,
			Size:              obj.Size,
			LastModified:      obj.LastModified,
			EstimatedDuration: estimateDuration(obj.Size, parts.Quality),
		})
	}

	sortRecordings(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	start := min(filter.Offset, total)
	end := min(start+filter.Limit, total)
	page := matched[start:end]

	for i := range page {
		url, presignErr := r.storage.PresignDownloadURL(ctx, page[i].Key, r.cfg.DownloadURLExpiry)
		if presignErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, presignErr)
		}
		page[i].URL = url
	}

	return &domain.RecordingPage{
		Recordings: page,
		Pagination: domain.Pagination{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: end < total,
		},
		Summary: domain.CatalogSummary{
			TotalRecordings: total,
			TotalSize:       totalSize,
			UniqueUsers:     len(users),
			UniqueRooms:     len(rooms),
		},
	}, nil
}

func normalizeFilter(filter domain.ListFilter) (domain.ListFilter, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		return filter, fmt.Errorf("%w: offset must not be negative", domain.ErrValidation)
	}
	switch filter.SortBy {
	case "":
		filter.SortBy = domain.SortByTimestamp
	case domain.SortByTimestamp, domain.SortBySize, domain.SortByName:
	default:
		return filter, fmt.Errorf("%w: unknown sortBy %q", domain.ErrValidation, filter.SortBy)
	}
	switch filter.SortOrder {
	case "":
		filter.SortOrder = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
	default:
		return filter, fmt.Errorf("%w: unknown sortOrder %q", domain.ErrValidation, filter.SortOrder)
	}
	return filter, nil
}

func sortRecordings(recs []domain.Recording, by domain.SortField, order domain.SortOrder) {
	slices.SortStableFunc(recs, func(a, b domain.Recording) int {
		var c int
		switch by {
		case domain.SortBySize:
			c = cmp.Compare(a.Size, b.Size)
		case domain.SortByName:
			c = cmp.Compare(displayName(a), displayName(b))
		default:
			c = cmp.Compare(a.Timestamp, b.Timestamp)
		}
		if order == domain.SortDesc {
			return -c
		}
		return c
	})
}

func displayName(rec domain.Recording) string {
	if rec.RecordingName != "" {
		return strings.ToLower(rec.RecordingName)
	}
	return strings.ToLower(rec.RecordingID)
}

// estimateDuration derives a duration from the fixed bitrate of the quality
func estimateDuration(size int64, quality domain.Quality) time.Duration {
	rate := quality.Profile().BytesPerSecond()
	if rate <= 0 {
		return 0
	}
	// whole seconds first, size*time.Second overflows past ~9.2GB
	return time.Duration(size/rate)*time.Second + time.Duration(size%rate)*time.Second/time.Duration(rate)
}
