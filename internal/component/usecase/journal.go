package usecase

import (
	"context"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
	"github.com/arnvold/parts-catalog-service/internal/filestore"
)

type journalKind int

const (
	journalMoved journalKind = iota
	journalUploaded
)

type journalEntry struct {
	kind journalKind
	from string // moved: source name
	name string // moved: target name; uploaded: object name
}

// journal records every file-store operation applied during one orchestrator
// run so a failure can reverse them. The file store has no transactions of
// its own; this in-memory record is the only rollback mechanism it gets.
type journal struct {
	store   filestore.Store
	entries []journalEntry
}

func newJournal(store filestore.Store) *journal {
	return &journal{store: store}
}

func (j *journal) recordMove(from, to string) {
	j.entries = append(j.entries, journalEntry{kind: journalMoved, from: from, name: to})
}

func (j *journal) recordUpload(name string) {
	j.entries = append(j.entries, journalEntry{kind: journalUploaded, name: name})
}

// revert undoes the recorded operations in reverse order: moves go back,
// fresh uploads are deleted. A reversal failure stops immediately and is
// reported as a rollback failure; blind continuation risks worsening the
// inconsistency, so the remaining state is left for manual reconciliation.
func (j *journal) revert(ctx context.Context) error {
	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]
		switch e.kind {
		case journalMoved:
			if _, err := j.store.Move(ctx, e.name, e.from); err != nil {
				return apperr.Wrap(apperr.CodeRollbackFailure,
					"reverting move "+e.name+" -> "+e.from, err)
			}
		case journalUploaded:
			if err := j.store.Delete(ctx, e.name); err != nil && !apperr.Is(err, apperr.CodeNotFound) {
				return apperr.Wrap(apperr.CodeRollbackFailure,
					"deleting staged upload "+e.name, err)
			}
		}
	}
	j.entries = nil
	return nil
}
