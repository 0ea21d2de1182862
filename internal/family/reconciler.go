package family

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"samadhan/internal/audit"
	familymetrics "samadhan/internal/family/metrics"
	"samadhan/internal/member"
	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/platform/tx"
)

// Reconciler is the repair path for one-sided member/family references. The
// transactional writes in Service should prevent drift; the sweep exists for
// records written before that boundary or damaged out of band. Family listings
// are the source of truth for membership; when more than one family lists the
// same live member, the member's back-reference names the owner.
type Reconciler struct {
	families  Store
	members   member.Store
	runner    tx.Runner
	publisher audit.Publisher
	metrics   *familymetrics.Metrics
	logger    *slog.Logger
}

func NewReconciler(families Store, members member.Store, runner tx.Runner,
	publisher audit.Publisher, metrics *familymetrics.Metrics, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		families:  families,
		members:   members,
		runner:    runner,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.logger.Error("reconciliation sweep", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep repairs every one-sided reference it finds and reports how many
// repairs were applied. A second sweep over repaired data applies zero.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	started := time.Now()
	defer func() {
		r.metrics.ObserveSweepDuration(time.Since(started).Seconds())
	}()

	families, err := r.families.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	listings := indexListings(families)

	repaired := 0
	for _, f := range families {
		n, err := r.repairFamily(ctx, f, listings)
		if err != nil {
			return repaired, err
		}
		repaired += n
	}

	// Members claiming a family that does not list them.
	assigned, err := r.members.ListAssigned(ctx)
	if err != nil {
		return repaired, err
	}
	for _, m := range assigned {
		if listings.lists(m.ID, m.FamilyID) {
			continue
		}
		if err := r.repairBackReference(ctx, m, listings.first[m.ID]); err != nil {
			return repaired, err
		}
		repaired++
	}

	if repaired > 0 {
		r.logger.Info("reconciliation sweep repaired references", slog.Int("count", repaired))
	}
	return repaired, nil
}

// repairFamily drops listings owned by another family or left by deleted
// members, restores back-references for the members this family owns, and
// realigns the denormalized arrays when they have drifted.
func (r *Reconciler) repairFamily(ctx context.Context, f Family, listings *listingIndex) (int, error) {
	repaired := 0
	err := r.runner.RunInTx(ctx, func(ctx context.Context) error {
		misaligned := !f.Aligned()
		present := make([]id.MemberID, 0, len(f.MemberIDs))
		members := make(map[id.MemberID]member.Member, len(f.MemberIDs))

		for _, memberID := range f.MemberIDs {
			m, err := r.members.FindByID(ctx, memberID)
			if errors.Is(err, sentinel.ErrNotFound) {
				// Deleted member still listed: drop it from the family.
				r.emitRepair(ctx, f.ID, memberID, "stale_listing_dropped")
				repaired++
				continue
			}
			if err != nil {
				return err
			}

			// A live member listed by two families belongs to the one its
			// back-reference names. Dropping the losing listing is what lets
			// a cross-family move settle on the new family.
			if listings.owner(m) != f.ID {
				r.emitRepair(ctx, f.ID, memberID, "stale_listing_dropped")
				repaired++
				continue
			}
			present = append(present, memberID)
			members[memberID] = m

			if m.FamilyID != f.ID {
				if err := r.members.SetFamilyID(ctx, memberID, f.ID); err != nil {
					return err
				}
				r.emitRepair(ctx, f.ID, memberID, "back_reference_restored")
				repaired++
			}
		}

		dropped := len(present) != len(f.MemberIDs)
		if !misaligned && !dropped {
			return nil
		}

		project(&f, present, members)
		f.UpdatedAt = time.Now()
		if err := r.families.Update(ctx, f); err != nil {
			return err
		}
		if misaligned {
			r.emitRepair(ctx, f.ID, id.MemberID{}, "arrays_realigned")
			repaired++
		}
		return nil
	})
	return repaired, err
}

// repairBackReference resolves a member whose back-reference disagrees with
// the family listings. owner is the family that lists the member, or nil when
// no family does.
func (r *Reconciler) repairBackReference(ctx context.Context, m member.Member, owner id.FamilyID) error {
	return r.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := r.members.SetFamilyID(ctx, m.ID, owner); err != nil {
			return err
		}
		detail := "back_reference_cleared"
		if !owner.IsNil() {
			detail = "back_reference_reassigned"
		}
		r.emitRepair(ctx, m.FamilyID, m.ID, detail)
		return nil
	})
}

// listingIndex is the sweep's snapshot of membership as the families record
// it, taken before any repair runs.
type listingIndex struct {
	byMember map[id.MemberID]map[id.FamilyID]struct{}
	first    map[id.MemberID]id.FamilyID
}

func indexListings(families []Family) *listingIndex {
	listings := &listingIndex{
		byMember: make(map[id.MemberID]map[id.FamilyID]struct{}),
		first:    make(map[id.MemberID]id.FamilyID),
	}
	for _, f := range families {
		for _, memberID := range f.MemberIDs {
			set, ok := listings.byMember[memberID]
			if !ok {
				set = make(map[id.FamilyID]struct{})
				listings.byMember[memberID] = set
				listings.first[memberID] = f.ID
			}
			set[f.ID] = struct{}{}
		}
	}
	return listings
}

func (ix *listingIndex) lists(memberID id.MemberID, familyID id.FamilyID) bool {
	_, ok := ix.byMember[memberID][familyID]
	return ok
}

// owner names the family a live member belongs to: the member's own
// back-reference when that family lists it, otherwise the first family
// listing it, otherwise nil.
func (ix *listingIndex) owner(m member.Member) id.FamilyID {
	if !m.FamilyID.IsNil() && ix.lists(m.ID, m.FamilyID) {
		return m.FamilyID
	}
	return ix.first[m.ID]
}

func (r *Reconciler) emitRepair(ctx context.Context, familyID id.FamilyID, memberID id.MemberID, detail string) {
	r.metrics.RecordRepair(detail)
	event := audit.Event{
		Action:   audit.ActionRepair,
		FamilyID: familyID.String(),
		Detail:   detail,
	}
	if !memberID.IsNil() {
		event.MemberID = memberID.String()
	}
	r.publisher.Emit(ctx, event)
}
