package family

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"samadhan/internal/audit"
	familymetrics "samadhan/internal/family/metrics"
	"samadhan/internal/member"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/platform/tx"
	"samadhan/pkg/requestcontext"
)

// Service owns family membership. Every mutation of a member's family
// back-reference goes through here so the two sides of the relationship
// cannot drift apart silently; the tx runner makes each mutation atomic.
type Service struct {
	families  Store
	members   member.Store
	runner    tx.Runner
	publisher audit.Publisher
	metrics   *familymetrics.Metrics
	logger    *slog.Logger
}

func NewService(families Store, members member.Store, runner tx.Runner,
	publisher audit.Publisher, metrics *familymetrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		families:  families,
		members:   members,
		runner:    runner,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Create builds a family from an initial member selection. Back-references
// and the denormalized arrays are written in one transaction.
func (s *Service) Create(ctx context.Context, familyName string, programID id.ProgramID, memberIDs []id.MemberID) (Family, error) {
	if strings.TrimSpace(familyName) == "" {
		return Family{}, domainerrors.New(domainerrors.CodeBadRequest, "family name is required")
	}
	if programID == "" {
		return Family{}, domainerrors.New(domainerrors.CodeBadRequest, "program id is required")
	}

	now := requestcontext.Now(ctx)
	f := Family{
		ID:         id.NewFamilyID(),
		FamilyName: familyName,
		ProgramID:  programID,
		CreatedBy:  requestcontext.AgentID(ctx),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		members, err := s.loadMembers(ctx, memberIDs)
		if err != nil {
			return err
		}
		project(&f, memberIDs, members)

		if err := s.families.Create(ctx, f); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "create family")
		}
		for _, memberID := range memberIDs {
			if err := s.members.SetFamilyID(ctx, memberID, f.ID); err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeInconsistentState,
					"assign member to new family")
			}
		}
		return nil
	})
	if err != nil {
		return Family{}, err
	}

	s.publisher.Emit(ctx, audit.Event{
		Action:    audit.ActionFamilyCreated,
		ProgramID: f.ProgramID,
		FamilyID:  f.ID.String(),
	})
	s.logger.Info("family created",
		slog.String("family_id", f.ID.String()),
		slog.Int("members", len(memberIDs)))
	return f, nil
}

// Get returns a family by ID.
func (s *Service) Get(ctx context.Context, familyID id.FamilyID) (Family, error) {
	f, err := s.families.FindByID(ctx, familyID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Family{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "family not found")
	}
	if err != nil {
		return Family{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "load family")
	}
	return f, nil
}

// List returns the families in a program.
func (s *Service) List(ctx context.Context, programID id.ProgramID) ([]Family, error) {
	if programID == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "program id is required")
	}
	families, err := s.families.ListByProgram(ctx, programID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list families")
	}
	return families, nil
}

// Search scans a program's families for a name or aadhar fragment. The
// denormalized arrays exist exactly for this lookup.
func (s *Service) Search(ctx context.Context, programID id.ProgramID, query string) ([]Family, error) {
	families, err := s.List(ctx, programID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return families, nil
	}

	var matches []Family
	for _, f := range families {
		if familyMatches(f, query) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

func familyMatches(f Family, query string) bool {
	if strings.Contains(strings.ToLower(f.FamilyName), query) {
		return true
	}
	for _, name := range f.MemberNames {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}
	for _, aadhar := range f.MemberAadharList {
		if strings.Contains(aadhar, query) {
			return true
		}
	}
	return false
}

// AttachMember appends a member to the family's four parallel arrays and sets
// the back-reference, add-only. Used at member-creation time. Attaching a
// member that is already present is a no-op.
func (s *Service) AttachMember(ctx context.Context, familyID id.FamilyID, m member.Member) error {
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		f, err := s.Get(ctx, familyID)
		if err != nil {
			return err
		}
		if f.Contains(m.ID) {
			return nil
		}

		f.MemberIDs = append(f.MemberIDs, m.ID)
		f.MemberNames = append(f.MemberNames, m.Name)
		f.MemberAadharList = append(f.MemberAadharList, m.AadharLastFour)
		f.MemberPhoneNumbers = append(f.MemberPhoneNumbers, m.PhoneNumber)
		f.UpdatedAt = requestcontext.Now(ctx)

		if err := s.families.Update(ctx, f); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "attach member to family")
		}
		if err := s.members.SetFamilyID(ctx, m.ID, familyID); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInconsistentState,
				"set member family back-reference")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.RecordMembershipChange("attach")
	s.publisher.Emit(ctx, audit.Event{
		Action:   audit.ActionFamilyMembership,
		FamilyID: familyID.String(),
		MemberID: m.ID.String(),
		Detail:   "attached",
	})
	return nil
}

// SetMembership is the full reconciliation used by the family-editing flow.
// It computes added and removed sets against the previous membership, rebuilds
// the denormalized arrays from scratch in target order, and rewrites every
// affected back-reference, all inside one transaction. Running it twice with
// the same target is a no-op the second time.
func (s *Service) SetMembership(ctx context.Context, familyID id.FamilyID, target []id.MemberID) (Family, error) {
	target = dedupe(target)

	var updated Family
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		f, err := s.Get(ctx, familyID)
		if err != nil {
			return err
		}

		added, removed := diff(f.MemberIDs, target)

		members, err := s.loadMembers(ctx, target)
		if err != nil {
			return err
		}
		project(&f, target, members)
		f.UpdatedAt = requestcontext.Now(ctx)

		if err := s.families.Update(ctx, f); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "update family membership")
		}
		// The full added/removed sets are always processed, never per-click,
		// so no back-reference is left orphaned.
		for _, memberID := range added {
			if err := s.members.SetFamilyID(ctx, memberID, familyID); err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeInconsistentState,
					"assign member to family")
			}
		}
		for _, memberID := range removed {
			if err := s.members.SetFamilyID(ctx, memberID, id.FamilyID{}); err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeInconsistentState,
					"clear member family back-reference")
			}
		}

		updated = f
		if len(added) > 0 || len(removed) > 0 {
			s.publisher.Emit(ctx, audit.Event{
				Action:   audit.ActionFamilyMembership,
				FamilyID: familyID.String(),
				Detail:   fmt.Sprintf("added=%d removed=%d", len(added), len(removed)),
			})
			s.metrics.RecordMembershipChange("reconcile")
		}
		return nil
	})
	if err != nil {
		return Family{}, err
	}
	return updated, nil
}

func (s *Service) loadMembers(ctx context.Context, memberIDs []id.MemberID) (map[id.MemberID]member.Member, error) {
	members := make(map[id.MemberID]member.Member, len(memberIDs))
	for _, memberID := range memberIDs {
		m, err := s.members.FindByID(ctx, memberID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest,
				fmt.Sprintf("member %s does not exist", memberID))
		}
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load member")
		}
		members[memberID] = m
	}
	return members, nil
}

// project rebuilds the denormalized arrays from scratch in target order so
// they can never drift from MemberIDs.
func project(f *Family, target []id.MemberID, members map[id.MemberID]member.Member) {
	f.MemberIDs = append([]id.MemberID{}, target...)
	f.MemberNames = make([]string, len(target))
	f.MemberAadharList = make([]string, len(target))
	f.MemberPhoneNumbers = make([]string, len(target))
	for i, memberID := range target {
		m := members[memberID]
		f.MemberNames[i] = m.Name
		f.MemberAadharList[i] = m.AadharLastFour
		f.MemberPhoneNumbers[i] = m.PhoneNumber
	}
}

func diff(previous, target []id.MemberID) (added, removed []id.MemberID) {
	previousSet := make(map[id.MemberID]struct{}, len(previous))
	for _, memberID := range previous {
		previousSet[memberID] = struct{}{}
	}
	targetSet := make(map[id.MemberID]struct{}, len(target))
	for _, memberID := range target {
		targetSet[memberID] = struct{}{}
	}

	for _, memberID := range target {
		if _, ok := previousSet[memberID]; !ok {
			added = append(added, memberID)
		}
	}
	for _, memberID := range previous {
		if _, ok := targetSet[memberID]; !ok {
			removed = append(removed, memberID)
		}
	}
	return added, removed
}

func dedupe(memberIDs []id.MemberID) []id.MemberID {
	seen := make(map[id.MemberID]struct{}, len(memberIDs))
	result := make([]id.MemberID, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		if _, ok := seen[memberID]; ok {
			continue
		}
		seen[memberID] = struct{}{}
		result = append(result, memberID)
	}
	return result
}
