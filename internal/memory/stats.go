package memory

import (
	"context"
	"sort"

	"github.com/forgekit/skillmem/internal/address"
	"github.com/forgekit/skillmem/internal/model"
	"github.com/forgekit/skillmem/internal/policy"
	"github.com/forgekit/skillmem/internal/store"
)

// Stats summarizes the store's contents and write activity.
type Stats struct {
	TotalRecords   int            `json:"total_records"`
	SkillRecords   int            `json:"skill_records"`
	ProjectRecords int            `json:"project_records"`
	ArchiveRecords int            `json:"archive_records"`
	Projects       []ProjectStats `json:"projects,omitempty"`
	Writes         map[string]int `json:"writes,omitempty"`
}

// ProjectStats holds per-project record counts.
type ProjectStats struct {
	Project string `json:"project"`
	Records int    `json:"records"`
}

// Stats walks the full store and tallies records per layer and
// project, plus journal write totals.
func (m *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	locations, err := m.blobs.List("")
	if err != nil {
		return nil, err
	}

	st := &Stats{}
	perProject := map[string]int{}
	for _, loc := range locations {
		a, err := address.Parse(loc)
		if err != nil {
			continue
		}
		st.TotalRecords++
		if policy.IsArchive(a.File) {
			st.ArchiveRecords++
		}
		switch a.Layer {
		case model.LayerSkill:
			st.SkillRecords++
		case model.LayerProject:
			st.ProjectRecords++
		}
		perProject[a.Project]++
	}
	for project, n := range perProject {
		st.Projects = append(st.Projects, ProjectStats{Project: project, Records: n})
	}
	sort.Slice(st.Projects, func(i, j int) bool { return st.Projects[i].Project < st.Projects[j].Project })

	st.Writes, err = m.meta.WriteCounts(ctx)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Journal returns the most recent mutations, newest first.
func (m *MemoryStore) Journal(ctx context.Context, limit int) ([]store.JournalEntry, error) {
	return m.meta.RecentWrites(ctx, limit)
}
