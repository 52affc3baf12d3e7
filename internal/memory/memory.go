// Package memory is the public facade over the store: addressing,
// freshness stamping, retention, size limits, and validation composed
// into the operations skill runtimes call.
package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgekit/skillmem/internal/address"
	"github.com/forgekit/skillmem/internal/codec"
	"github.com/forgekit/skillmem/internal/config"
	"github.com/forgekit/skillmem/internal/freshness"
	"github.com/forgekit/skillmem/internal/model"
	"github.com/forgekit/skillmem/internal/policy"
	"github.com/forgekit/skillmem/internal/quality"
	"github.com/forgekit/skillmem/internal/store"
)

// MemoryStore composes the storage, retention, and validation layers.
// Writes are last-writer-wins per address; callers needing stronger
// guarantees serialize their own writes.
type MemoryStore struct {
	blobs  store.Store
	meta   *store.MetaStore
	engine *policy.Engine

	// now is injectable for lifecycle tests.
	now func() time.Time
}

// New builds a MemoryStore from its collaborators and a policy config.
func New(blobs store.Store, meta *store.MetaStore, cfg config.Config) *MemoryStore {
	return &MemoryStore{
		blobs:  blobs,
		meta:   meta,
		engine: policy.NewEngine(policy.NewRegistry(cfg)),
		now:    time.Now,
	}
}

// ReadResult is a record as seen by a reader.
type ReadResult struct {
	Address   model.Address   `json:"address"`
	Body      string          `json:"body"`
	Staleness model.Staleness `json:"staleness"`
	LineCount int             `json:"line_count"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WriteResult reports a committed mutation plus its advisory warnings.
// Warnings never block a write.
type WriteResult struct {
	Address   model.Address `json:"address"`
	LineCount int           `json:"line_count"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// PruneResult reports what a prune pass did.
type PruneResult struct {
	Address         model.Address `json:"address"`
	EntriesArchived int           `json:"entries_archived"`
	EntriesExpired  int           `json:"entries_expired"`
	EntriesFlagged  int           `json:"entries_flagged"`
	Warnings        []string      `json:"warnings,omitempty"`
}

// Read returns a record's body and staleness classification.
func (m *MemoryStore) Read(ctx context.Context, a model.Address) (*ReadResult, error) {
	rec, err := m.load(a)
	if err != nil {
		return nil, err
	}
	return &ReadResult{
		Address:   rec.Address,
		Body:      rec.Body,
		Staleness: freshness.Classify(rec.UpdatedAt, m.now()),
		LineCount: rec.LineCount,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// Create writes a record at an address that must not already exist.
func (m *MemoryStore) Create(ctx context.Context, a model.Address, body string) (*WriteResult, error) {
	loc, err := address.Resolve(a)
	if err != nil {
		return nil, err
	}
	if _, err := m.blobs.Get(loc); err == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrExists, a)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	return m.commit(ctx, "create", a, loc, body, time.Time{})
}

// Update replaces a record's body in full. The record must exist.
func (m *MemoryStore) Update(ctx context.Context, a model.Address, body string) (*WriteResult, error) {
	rec, err := m.load(a)
	if err != nil {
		return nil, err
	}
	loc, _ := address.Resolve(a)
	return m.commit(ctx, "update", a, loc, body, rec.UpdatedAt)
}

// Append adds an entry to a record's body, then applies the file's
// retention policy. Overflow entries move to the archive record before
// the primary is rewritten, so a failed archive write degrades to an
// unpruned primary plus a warning instead of silent data loss.
func (m *MemoryStore) Append(ctx context.Context, a model.Address, entry string) (*WriteResult, error) {
	rec, err := m.load(a)
	if err != nil {
		return nil, err
	}
	loc, _ := address.Resolve(a)

	body := rec.Body
	if body != "" && !endsWithNewline(body) {
		body += "\n"
	}
	body += entry
	if !endsWithNewline(body) {
		body += "\n"
	}

	res := m.engine.Apply(a.File, body, m.now())
	body, _, warnings := m.settleOverflow(a, res)

	wr, err := m.commit(ctx, "append", a, loc, body, rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	wr.Warnings = append(warnings, wr.Warnings...)
	return wr, nil
}

// Delete removes a record and its counter state. The archive record,
// if any, is left untouched: delete never cascades.
func (m *MemoryStore) Delete(ctx context.Context, a model.Address) error {
	loc, err := address.Resolve(a)
	if err != nil {
		return err
	}
	if err := m.blobs.Delete(loc); err != nil {
		return err
	}
	if err := m.meta.ClearLocation(ctx, loc); err != nil {
		return err
	}
	return m.meta.LogWrite(ctx, "delete", loc)
}

// Prune applies retention to a record outside the append path. With a
// policyOverride it applies that named policy instead of the one the
// file pattern selects. The record is rewritten (and re-stamped) only
// when retention changed the body.
func (m *MemoryStore) Prune(ctx context.Context, a model.Address, policyOverride string) (*PruneResult, error) {
	rec, err := m.load(a)
	if err != nil {
		return nil, err
	}
	loc, _ := address.Resolve(a)

	var res policy.Result
	if policyOverride != "" {
		res, err = m.engine.ApplyNamed(policyOverride, a.File, rec.Body, m.now())
		if err != nil {
			return nil, err
		}
	} else {
		res = m.engine.Apply(a.File, rec.Body, m.now())
	}

	pr := &PruneResult{
		Address:        a,
		EntriesExpired: res.Expired,
		EntriesFlagged: res.Flagged,
	}

	body, archived, warnings := m.settleOverflow(a, res)
	pr.EntriesArchived = archived
	pr.Warnings = warnings

	if body == rec.Body {
		return pr, nil
	}

	wr, err := m.commit(ctx, "prune", a, loc, body, rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	pr.Warnings = append(pr.Warnings, wr.Warnings...)
	return pr, nil
}

// Validate builds a quality report for a record without mutating it.
func (m *MemoryStore) Validate(ctx context.Context, a model.Address) (*model.ValidationReport, error) {
	rec, err := m.load(a)
	if err != nil {
		return nil, err
	}
	limit, haveLimit := m.engine.Registry().LimitFor(a.File)
	report := quality.Evaluate(rec, freshness.Classify(rec.UpdatedAt, m.now()), limit, haveLimit)

	if p, ok := m.engine.Registry().PolicyFor(a.File); ok && p.ReverifyEvery > 0 {
		loc, _ := address.Resolve(a)
		n, err := m.meta.Invocations(ctx, loc)
		if err != nil {
			return nil, err
		}
		if n > 0 && n%p.ReverifyEvery == 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s reached %d writes: re-verify its entries", a.File, n))
		}
	}
	return &report, nil
}

// StalenessEntry pairs an address with its freshness classification.
type StalenessEntry struct {
	Address   model.Address   `json:"address"`
	Staleness model.Staleness `json:"staleness"`
}

// StalenessReport classifies every record belonging to a project, in
// both layers. Archive records are excluded; fetch them explicitly.
func (m *MemoryStore) StalenessReport(ctx context.Context, project string) ([]StalenessEntry, error) {
	addrs, err := m.projectAddresses(project)
	if err != nil {
		return nil, err
	}
	var report []StalenessEntry
	for _, a := range addrs {
		rec, err := m.load(a)
		if err != nil {
			return nil, err
		}
		report = append(report, StalenessEntry{
			Address:   a,
			Staleness: freshness.Classify(rec.UpdatedAt, m.now()),
		})
	}
	return report, nil
}

// ProjectEntry is one record in a cross-skill project listing. Skill
// is empty for the shared-project layer.
type ProjectEntry struct {
	Skill     string          `json:"skill,omitempty"`
	File      string          `json:"file"`
	Staleness model.Staleness `json:"staleness"`
}

// ByProject lists a project's records across all skills, for
// discovery by callers that only know the project name.
func (m *MemoryStore) ByProject(ctx context.Context, project string) ([]ProjectEntry, error) {
	addrs, err := m.projectAddresses(project)
	if err != nil {
		return nil, err
	}
	var entries []ProjectEntry
	for _, a := range addrs {
		rec, err := m.load(a)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ProjectEntry{
			Skill:     a.Skill,
			File:      a.File,
			Staleness: freshness.Classify(rec.UpdatedAt, m.now()),
		})
	}
	return entries, nil
}

// load resolves, fetches, and decodes one record. A missing or
// unparsable freshness marker falls back to the storage modification
// time instead of failing the read.
func (m *MemoryStore) load(a model.Address) (model.Record, error) {
	loc, err := address.Resolve(a)
	if err != nil {
		return model.Record{}, err
	}
	data, err := m.blobs.Get(loc)
	if err != nil {
		return model.Record{}, err
	}
	updatedAt, body := codec.Decode(data)
	if updatedAt.IsZero() {
		if mt, err := m.blobs.ModTime(loc); err == nil {
			updatedAt = mt
		}
	}
	return model.Record{
		Address:   a,
		UpdatedAt: updatedAt,
		Body:      body,
		LineCount: codec.LineCount(body),
	}, nil
}

// commit stamps, encodes, and persists a body, then records the
// mutation. The stamp never moves backwards past a previously
// persisted timestamp.
func (m *MemoryStore) commit(ctx context.Context, op string, a model.Address, loc, body string, prev time.Time) (*WriteResult, error) {
	stamp := m.now()
	if prev.After(stamp) {
		stamp = prev
	}
	if err := m.blobs.Put(loc, codec.Encode(stamp, body)); err != nil {
		return nil, err
	}
	if err := m.meta.LogWrite(ctx, op, loc); err != nil {
		return nil, err
	}

	wr := &WriteResult{Address: a, LineCount: codec.LineCount(body)}
	wr.Warnings = append(wr.Warnings, m.sizeWarnings(a.File, wr.LineCount)...)

	if op == "create" || op == "update" || op == "append" {
		if w, err := m.bumpReverify(ctx, a, loc); err != nil {
			return nil, err
		} else if w != "" {
			wr.Warnings = append(wr.Warnings, w)
		}
	}
	return wr, nil
}

// sizeWarnings re-checks the size limit after retention has already
// pruned the body. Retention runs first so the limit never forces
// unnecessary truncation; when pruning still leaves the body over the
// limit the store warns rather than destroying content. Archive
// records are unbounded by design and never warned about.
func (m *MemoryStore) sizeWarnings(file string, lineCount int) []string {
	if policy.IsArchive(file) {
		return nil
	}
	limit, ok := m.engine.Registry().LimitFor(file)
	if !ok || lineCount <= limit.MaxLines {
		return nil
	}
	switch limit.Action {
	case config.ActionSplit:
		return []string{fmt.Sprintf(
			"%s has %d lines (limit %d): split it into focused files", file, lineCount, limit.MaxLines)}
	default:
		return []string{fmt.Sprintf(
			"%s has %d lines (limit %d): trim or archive older entries", file, lineCount, limit.MaxLines)}
	}
}

func (m *MemoryStore) bumpReverify(ctx context.Context, a model.Address, loc string) (string, error) {
	p, ok := m.engine.Registry().PolicyFor(a.File)
	if !ok || p.ReverifyEvery <= 0 {
		return "", nil
	}
	n, err := m.meta.BumpInvocations(ctx, loc)
	if err != nil {
		return "", err
	}
	if n%p.ReverifyEvery == 0 {
		return fmt.Sprintf("%s reached %d writes: re-verify its entries", a.File, n), nil
	}
	return "", nil
}

// settleOverflow moves retention overflow to the archive record before
// the primary is rewritten. When the archive write fails the pruned
// entries stay in the primary: partial success surfaces as a warning,
// never as silent loss.
func (m *MemoryStore) settleOverflow(a model.Address, res policy.Result) (string, int, []string) {
	if len(res.Overflow) == 0 {
		return res.Body, 0, nil
	}
	if err := m.archive(a, res.Overflow); err != nil {
		return res.Unpruned, 0, []string{fmt.Sprintf(
			"archive write failed, %d entries kept in %s: %v", len(res.Overflow), a.File, err)}
	}
	return res.Body, len(res.Overflow), nil
}

// archive appends entries verbatim, in original order, to the
// companion archive record, creating it on first use.
func (m *MemoryStore) archive(a model.Address, entries []policy.Entry) error {
	target := a
	target.File = policy.ArchiveFile(a.File)
	loc, err := address.Resolve(target)
	if err != nil {
		return err
	}

	var body string
	var prev time.Time
	if data, err := m.blobs.Get(loc); err == nil {
		prev, body = codec.Decode(data)
	} else if !errors.Is(err, model.ErrNotFound) {
		return err
	}

	if body != "" && !endsWithNewline(body) {
		body += "\n"
	}
	for _, e := range entries {
		body += e.Text
	}

	stamp := m.now()
	if prev.After(stamp) {
		stamp = prev
	}
	return m.blobs.Put(loc, codec.Encode(stamp, body))
}

func (m *MemoryStore) projectAddresses(project string) ([]model.Address, error) {
	if project == "" {
		return nil, fmt.Errorf("%w: project is required", model.ErrInvalidAddress)
	}

	var addrs []model.Address
	shared, err := m.blobs.List("projects/" + project)
	if err != nil {
		return nil, err
	}
	skilled, err := m.blobs.List("skills")
	if err != nil {
		return nil, err
	}
	for _, loc := range append(shared, skilled...) {
		a, err := address.Parse(loc)
		if err != nil {
			continue // foreign file under the store root
		}
		if a.Project != project || policy.IsArchive(a.File) {
			continue
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

func endsWithNewline(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '\n'
}
