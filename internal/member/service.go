package member

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"samadhan/internal/audit"
	"samadhan/internal/eligibility"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/requestcontext"
)

// Decision is the caller's choice when a submission hits an existing natural
// key. An empty decision surfaces the duplicate back to the caller.
type Decision string

const (
	DecisionMerge   Decision = "merge"
	DecisionDiscard Decision = "discard"
)

// Outcome reports what Register did with a submission.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeMerged    Outcome = "merged"
	OutcomeDiscarded Outcome = "discarded"
	// OutcomeDuplicate means an existing record was found and no decision was
	// supplied; nothing was written.
	OutcomeDuplicate Outcome = "duplicate"
)

// Submission is a completed registration session ready for persistence.
type Submission struct {
	Name           string
	PhoneNumber    string
	DateOfBirth    string
	AadharLastFour string
	ProgramID      id.ProgramID
	FamilyID       id.FamilyID
	Location       Location

	QuestionAnswers   []eligibility.QuestionAnswer
	EligibleSchemes   []eligibility.Match
	EligibleDocuments []eligibility.Match
}

// Counter increments the process-wide members-created metric.
type Counter interface {
	IncrementMembersCreated()
}

// Service is the identity resolver: the sole gate preventing duplicate member
// records across repeated field visits for the same person.
type Service struct {
	store     Store
	publisher audit.Publisher
	counter   Counter
	logger    *slog.Logger
}

func NewService(store Store, publisher audit.Publisher, counter Counter, logger *slog.Logger) *Service {
	return &Service{store: store, publisher: publisher, counter: counter, logger: logger}
}

// Resolve looks up an existing member by natural key. The bool reports
// whether a record exists; an absent record is not an error.
func (s *Service) Resolve(ctx context.Context, key NaturalKey) (Member, bool, error) {
	existing, err := s.store.FindByNaturalKey(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Member{}, false, nil
	}
	if err != nil {
		return Member{}, false, domainerrors.Wrap(err, domainerrors.CodeInternal, "resolve member")
	}
	return existing, true, nil
}

// Register creates or updates the member for a submission. On a duplicate
// natural key the decision selects merge or discard; without a decision the
// existing record is returned with OutcomeDuplicate and nothing is written.
func (s *Service) Register(ctx context.Context, sub Submission, decision Decision) (Member, Outcome, error) {
	if err := validate(sub); err != nil {
		return Member{}, "", err
	}
	key := NewNaturalKey(sub.Name, sub.AadharLastFour, sub.ProgramID)

	existing, found, err := s.Resolve(ctx, key)
	if err != nil {
		return Member{}, "", err
	}
	if found {
		return s.resolveDuplicate(ctx, existing, sub, decision)
	}

	created, err := s.create(ctx, sub, key)
	if errors.Is(err, sentinel.ErrConflict) {
		// Lost a race with a concurrent registration for the same person.
		// The unique index guarantees exactly one record exists now, so
		// re-resolve and fall through to the duplicate path.
		existing, found, err = s.Resolve(ctx, key)
		if err != nil {
			return Member{}, "", err
		}
		if !found {
			return Member{}, "", domainerrors.New(domainerrors.CodeInconsistentState,
				"member conflicted on create but is absent on re-read")
		}
		return s.resolveDuplicate(ctx, existing, sub, decision)
	}
	if err != nil {
		return Member{}, "", err
	}
	return created, OutcomeCreated, nil
}

// Get returns a member by ID.
func (s *Service) Get(ctx context.Context, memberID id.MemberID) (Member, error) {
	m, err := s.store.FindByID(ctx, memberID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Member{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "member not found")
	}
	if err != nil {
		return Member{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "load member")
	}
	return m, nil
}

// List returns the members registered under a program.
func (s *Service) List(ctx context.Context, programID id.ProgramID) ([]Member, error) {
	if programID == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "program id is required")
	}
	members, err := s.store.ListByProgram(ctx, programID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list members")
	}
	return members, nil
}

func (s *Service) create(ctx context.Context, sub Submission, key NaturalKey) (Member, error) {
	now := requestcontext.Now(ctx)
	m := Member{
		ID:                id.NewMemberID(),
		Name:              sub.Name,
		NormalizedName:    key.NormalizedName,
		PhoneNumber:       sub.PhoneNumber,
		DateOfBirth:       sub.DateOfBirth,
		AadharLastFour:    key.AadharLastFour,
		ProgramID:         sub.ProgramID,
		FamilyID:          sub.FamilyID,
		Location:          sub.Location,
		QuestionAnswers:   sub.QuestionAnswers,
		EligibleSchemes:   sub.EligibleSchemes,
		EligibleDocuments: sub.EligibleDocuments,
		RegisteredBy:      requestcontext.AgentID(ctx),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.Create(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Member{}, fmt.Errorf("create member: %w", err)
		}
		return Member{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "create member")
	}

	s.counter.IncrementMembersCreated()
	s.publisher.Emit(ctx, audit.Event{
		Action:    audit.ActionMemberCreated,
		ProgramID: m.ProgramID,
		MemberID:  m.ID.String(),
	})
	s.logger.Info("member created",
		slog.String("member_id", m.ID.String()),
		slog.String("program_id", string(m.ProgramID)))
	return m, nil
}

func (s *Service) resolveDuplicate(ctx context.Context, existing Member, sub Submission, decision Decision) (Member, Outcome, error) {
	switch decision {
	case DecisionDiscard:
		s.publisher.Emit(ctx, audit.Event{
			Action:    audit.ActionMemberDiscarded,
			ProgramID: existing.ProgramID,
			MemberID:  existing.ID.String(),
		})
		return existing, OutcomeDiscarded, nil

	case DecisionMerge:
		merged := merge(existing, sub)
		merged.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.Update(ctx, merged); err != nil {
			return Member{}, "", domainerrors.Wrap(err, domainerrors.CodeInternal, "merge member")
		}
		s.publisher.Emit(ctx, audit.Event{
			Action:    audit.ActionMemberMerged,
			ProgramID: merged.ProgramID,
			MemberID:  merged.ID.String(),
		})
		s.logger.Info("member merged",
			slog.String("member_id", merged.ID.String()),
			slog.String("program_id", string(merged.ProgramID)))
		return merged, OutcomeMerged, nil

	case "":
		return existing, OutcomeDuplicate, nil

	default:
		return Member{}, "", domainerrors.New(domainerrors.CodeBadRequest,
			fmt.Sprintf("unknown duplicate decision %q", decision))
	}
}

// merge overwrites the mutable fields of an existing record from a new
// submission. Identity fields are never touched; the family back-reference is
// overwritten only when the submission carries one, so a re-registration
// without family context does not detach the member.
func merge(existing Member, sub Submission) Member {
	existing.PhoneNumber = sub.PhoneNumber
	existing.DateOfBirth = sub.DateOfBirth
	existing.Location = sub.Location
	existing.QuestionAnswers = sub.QuestionAnswers
	existing.EligibleSchemes = sub.EligibleSchemes
	existing.EligibleDocuments = sub.EligibleDocuments
	if !sub.FamilyID.IsNil() {
		existing.FamilyID = sub.FamilyID
	}
	return existing
}

func validate(sub Submission) error {
	if NormalizeName(sub.Name) == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "member name is required")
	}
	if sub.AadharLastFour == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "aadhar last four digits are required")
	}
	if sub.ProgramID == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "program id is required")
	}
	return nil
}
