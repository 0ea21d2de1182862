package registration

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"samadhan/internal/catalog"
	"samadhan/internal/eligibility"
	"samadhan/internal/family"
	"samadhan/internal/member"
	regmetrics "samadhan/internal/registration/metrics"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/requestcontext"
)

// StartSessionInput carries the identity fields scanned or entered before the
// questionnaire begins.
type StartSessionInput struct {
	ProgramID      id.ProgramID
	Name           string
	PhoneNumber    string
	DateOfBirth    string
	AadharLastFour string
	FamilyID       id.FamilyID
	Location       member.Location
}

// Service orchestrates a registration session end to end: answers in,
// eligibility out, then the member write and family attach. The member write
// and the family attach are separate atomic steps rather than one
// transaction; a failure between them surfaces as an inconsistent-state error
// and is repaired by the family reconciliation sweep.
type Service struct {
	sessions SessionStore
	catalog  *catalog.Service
	rules    eligibility.Store
	members  *member.Service
	families *family.Service
	metrics  *regmetrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	ttl      time.Duration
}

func NewService(sessions SessionStore, cat *catalog.Service, rules eligibility.Store,
	members *member.Service, families *family.Service, metrics *regmetrics.Metrics,
	logger *slog.Logger, ttl time.Duration) *Service {
	return &Service{
		sessions: sessions,
		catalog:  cat,
		rules:    rules,
		members:  members,
		families: families,
		metrics:  metrics,
		logger:   logger,
		tracer:   otel.Tracer("samadhan/registration"),
		ttl:      ttl,
	}
}

// Start opens a session for one person's registration.
func (s *Service) Start(ctx context.Context, input StartSessionInput) (Session, error) {
	if input.ProgramID == "" {
		return Session{}, domainerrors.New(domainerrors.CodeBadRequest, "program id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return Session{}, domainerrors.New(domainerrors.CodeBadRequest, "member name is required")
	}

	now := requestcontext.Now(ctx)
	session := Session{
		ID:             id.NewSessionID(),
		ProgramID:      input.ProgramID,
		AgentID:        requestcontext.AgentID(ctx),
		Name:           input.Name,
		PhoneNumber:    input.PhoneNumber,
		DateOfBirth:    input.DateOfBirth,
		AadharLastFour: input.AadharLastFour,
		FamilyID:       input.FamilyID,
		Location:       input.Location,
		Answers:        eligibility.NewAnswerSet(),
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return Session{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "create session")
	}
	return session, nil
}

// Get loads a live session.
func (s *Service) Get(ctx context.Context, sessionID id.SessionID) (Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, sentinel.ErrExpired) {
		return Session{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "session expired")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return Session{}, domainerrors.Wrap(err, domainerrors.CodeNotFound, "session not found")
	}
	if err != nil {
		return Session{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "load session")
	}
	return session, nil
}

// SetAnswers records or replaces answers for the given questions, leaving
// other answers in place, and extends the session TTL.
func (s *Service) SetAnswers(ctx context.Context, sessionID id.SessionID, answers map[id.QuestionID][]string) (Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}

	for questionID, values := range answers {
		session.Answers.Set(questionID, values)
	}
	now := requestcontext.Now(ctx)
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.ttl)

	if err := s.sessions.Update(ctx, session); err != nil {
		return Session{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "update session")
	}
	return session, nil
}

// Evaluate runs the session's answers against the program's schemes and
// documents and stores the compact matches on the session for the final
// member write. The full matching entities are returned for detail display.
func (s *Service) Evaluate(ctx context.Context, sessionID id.SessionID) (Evaluation, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Evaluate",
		trace.WithAttributes(attribute.String("session.id", sessionID.String())))
	defer span.End()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return Evaluation{}, err
	}

	var (
		schemes   []eligibility.Scheme
		documents []eligibility.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		schemes, err = s.rules.ListSchemes(gctx, session.ProgramID)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = s.rules.ListDocuments(gctx, session.ProgramID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Evaluation{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "load eligibility rules")
	}

	result := Evaluation{}
	result.SchemeMatches, result.Schemes = eligibility.EvaluateSchemes(schemes, session.Answers)
	result.DocumentMatches, result.Documents = eligibility.EvaluateDocuments(documents, session.Answers)

	s.metrics.RecordEvaluations("scheme", len(result.SchemeMatches), len(schemes))
	s.metrics.RecordEvaluations("document", len(result.DocumentMatches), len(documents))
	span.SetAttributes(
		attribute.Int("schemes.matched", len(result.SchemeMatches)),
		attribute.Int("documents.matched", len(result.DocumentMatches)),
	)

	session.EligibleSchemes = result.SchemeMatches
	session.EligibleDocuments = result.DocumentMatches
	session.UpdatedAt = requestcontext.Now(ctx)
	if err := s.sessions.Update(ctx, session); err != nil {
		return Evaluation{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "update session")
	}
	return result, nil
}

// Register persists the session as a member record. On a duplicate natural
// key the decision selects merge or discard; with no decision the duplicate
// is surfaced and the session stays open so the agent can choose. Completed
// sessions are deleted.
func (s *Service) Register(ctx context.Context, sessionID id.SessionID, decision member.Decision) (member.Member, member.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Register",
		trace.WithAttributes(attribute.String("session.id", sessionID.String())))
	defer span.End()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return member.Member{}, "", err
	}

	formatted, err := s.formatAnswers(ctx, session)
	if err != nil {
		return member.Member{}, "", err
	}

	registered, outcome, err := s.members.Register(ctx, member.Submission{
		Name:              session.Name,
		PhoneNumber:       session.PhoneNumber,
		DateOfBirth:       session.DateOfBirth,
		AadharLastFour:    session.AadharLastFour,
		ProgramID:         session.ProgramID,
		Location:          session.Location,
		QuestionAnswers:   formatted,
		EligibleSchemes:   session.EligibleSchemes,
		EligibleDocuments: session.EligibleDocuments,
	}, decision)
	if err != nil {
		return member.Member{}, "", err
	}
	span.SetAttributes(attribute.String("registration.outcome", string(outcome)))

	if outcome == member.OutcomeDuplicate {
		s.metrics.RecordRegistration(string(outcome))
		return registered, outcome, nil
	}
	if outcome == member.OutcomeMerged || outcome == member.OutcomeDiscarded {
		s.metrics.RecordDuplicateResolution(string(decision))
	}

	if wrote := outcome == member.OutcomeCreated || outcome == member.OutcomeMerged; wrote && !session.FamilyID.IsNil() {
		if err := s.families.AttachMember(ctx, session.FamilyID, registered); err != nil {
			// The member record is already written; the reconciliation sweep
			// will restore the family side.
			s.logger.Error("family attach after member write",
				slog.String("member_id", registered.ID.String()),
				slog.String("family_id", session.FamilyID.String()),
				slog.String("error", err.Error()))
			return registered, outcome, domainerrors.Wrap(err, domainerrors.CodeInconsistentState,
				"member written but family attach failed")
		}
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.logger.Warn("delete completed session",
			slog.String("session_id", session.ID.String()),
			slog.String("error", err.Error()))
	}
	s.metrics.RecordRegistration(string(outcome))
	return registered, outcome, nil
}

// formatAnswers resolves the answered questions through the catalog and
// converts the raw answers into the persisted shape.
func (s *Service) formatAnswers(ctx context.Context, session Session) ([]eligibility.QuestionAnswer, error) {
	questionIDs := session.Answers.QuestionIDs()
	sort.Slice(questionIDs, func(i, j int) bool { return questionIDs[i] < questionIDs[j] })

	questions, err := s.catalog.Resolve(ctx, questionIDs, nil)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "resolve questions")
	}
	return eligibility.Format(questions, session.Answers), nil
}

// RunSessionPurge evicts expired sessions on a fixed interval until ctx is
// cancelled.
func (s *Service) RunSessionPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if purged := s.sessions.PurgeExpired(ctx, time.Now()); purged > 0 {
				s.metrics.RecordSessionsPurged(purged)
				s.logger.Info("purged expired sessions", slog.Int("count", purged))
			}
		case <-ctx.Done():
			return
		}
	}
}
