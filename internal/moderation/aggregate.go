// Package moderation turns raw reports into per-confession triage groups and
// applies moderator actions to them.
package moderation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
)

// ReportGroup is every report filed against one confession. Derived on each
// fetch, never stored.
type ReportGroup struct {
	ContentID       uuid.UUID          `json:"content_id"`
	Confession      *models.Confession `json:"confession,omitempty"`
	Reports         []models.Report    `json:"reports"`
	Count           int                `json:"count"`
	LatestTimestamp time.Time          `json:"latest_timestamp"`
}

// ReportIDs returns the ids of every member report.
func (g ReportGroup) ReportIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(g.Reports))
	for i, r := range g.Reports {
		ids[i] = r.ID
	}
	return ids
}

// Group buckets reports by confession. Members are newest first and groups
// are ordered by their latest report, newest first.
func Group(reports []models.Report) []ReportGroup {
	index := make(map[uuid.UUID]int)
	var groups []ReportGroup
	for _, r := range reports {
		i, ok := index[r.ConfessionID]
		if !ok {
			i = len(groups)
			index[r.ConfessionID] = i
			groups = append(groups, ReportGroup{ContentID: r.ConfessionID})
		}
		groups[i].Reports = append(groups[i].Reports, r)
	}

	for i := range groups {
		g := &groups[i]
		sort.SliceStable(g.Reports, func(a, b int) bool {
			return g.Reports[a].CreatedAt.After(g.Reports[b].CreatedAt)
		})
		g.Count = len(g.Reports)
		g.LatestTimestamp = g.Reports[0].CreatedAt
	}

	sort.Slice(groups, func(a, b int) bool {
		if !groups[a].LatestTimestamp.Equal(groups[b].LatestTimestamp) {
			return groups[a].LatestTimestamp.After(groups[b].LatestTimestamp)
		}
		return groups[a].ContentID.String() < groups[b].ContentID.String()
	})
	return groups
}

// GroupByStatus filters reports to status before grouping, so counts and
// timestamps reflect only matching reports. A nil status keeps everything.
func GroupByStatus(reports []models.Report, status *models.ReportStatus) []ReportGroup {
	if status == nil {
		return Group(reports)
	}
	filtered := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if r.Status == *status {
			filtered = append(filtered, r)
		}
	}
	return Group(filtered)
}
