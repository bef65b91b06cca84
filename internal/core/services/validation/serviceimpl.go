package validation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"gitlab.com/answer-validator.net/internal/config"
	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/core/services/comparator"
	"gitlab.com/answer-validator.net/internal/domain"
	"gitlab.com/answer-validator.net/internal/static/errs"
)

var _ IValidationService = (*ValidationService)(nil)

// ValidationService implements the IValidationService interface
type ValidationService struct {
	cfg      *config.ValidationSvcCfg
	store    secondary.TestCaseStore
	executor secondary.CodeExecutor
	sink     OutcomeSink
	hasher   primary.SubmissionHasher
	metrics  primary.ValidationMetrics
	logger   primary.Logger

	// pool bounds executor calls across every request served by this instance
	pool *semaphore.Weighted
	now  func() time.Time
}

// NewValidationService creates a new validation service
func NewValidationService(
	cfg *config.ValidationSvcCfg,
	store secondary.TestCaseStore,
	executor secondary.CodeExecutor,
	sink OutcomeSink,
	hasher primary.SubmissionHasher,
	metrics primary.ValidationMetrics,
	logger primary.Logger,
) *ValidationService {
	size := cfg.MaxConcurrency
	if size < 1 {
		size = 1
	}
	if metrics == nil {
		metrics = primary.NoopMetrics{}
	}
	return &ValidationService{
		cfg:      cfg,
		store:    store,
		executor: executor,
		sink:     sink,
		hasher:   hasher,
		metrics:  metrics,
		logger:   logger,
		pool:     semaphore.NewWeighted(int64(size)),
		now:      time.Now,
	}
}

// ValidateAnswer grades a submission against the selected test cases
func (s *ValidationService) ValidateAnswer(ctx context.Context, req ValidationRequest) (*domain.ValidationReport, error) {
	started := time.Now()

	payload, err := ExtractSubmissionPayload(req.SubmittedAnswer)
	if err != nil {
		s.metrics.ObserveRequest("invalid_submission", time.Since(started))
		return nil, err
	}

	testCases, err := s.resolveTestCases(ctx, req)
	if err != nil {
		s.metrics.ObserveRequest("error", time.Since(started))
		return nil, err
	}
	if len(testCases) == 0 {
		s.metrics.ObserveRequest("no_test_cases", time.Since(started))
		if len(req.TestCaseIDs) > 0 {
			return nil, fmt.Errorf("puzzle %s: %w: %w", req.PuzzleID, errs.ErrNoTestCases, errs.ErrTestCaseNotFound)
		}
		return nil, fmt.Errorf("puzzle %s: %w", req.PuzzleID, errs.ErrNoTestCases)
	}

	attemptID := uuid.New()
	ledgerIn := domain.LedgerInput{
		AttemptID:       attemptID,
		PuzzleID:        req.PuzzleID,
		UserID:          req.UserID,
		SubmittedAnswer: req.SubmittedAnswer,
		SubmissionHash:  s.hasher.Hash(req.SubmittedAnswer.Canonical()),
		CreatedAt:       s.now(),
	}

	s.logger.Info("Validating answer",
		"attemptId", attemptID,
		"puzzleId", req.PuzzleID,
		"testCases", len(testCases))

	results := make([]domain.ValidationOutcome, len(testCases))
	finished := make([]bool, len(testCases))

	var wg sync.WaitGroup
	var issueErr error
	for i, tc := range testCases {
		if err := ctx.Err(); err != nil {
			issueErr = err
			break
		}
		if err := s.pool.Acquire(ctx, 1); err != nil {
			issueErr = err
			break
		}
		wg.Add(1)
		go func(i int, tc *domain.TestCase) {
			defer wg.Done()
			defer s.pool.Release(1)
			results[i], finished[i] = s.runTestCase(ctx, tc, payload)
		}(i, tc)
	}

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()

	if issueErr == nil {
		issueErr = waitFinished(ctx, allDone)
	}
	if issueErr == nil && !allFinished(finished) {
		issueErr = ctx.Err()
	}

	if issueErr != nil {
		s.metrics.ObserveRequest("cancelled", time.Since(started))
		s.logger.Warn("Validation cancelled, persisting finished outcomes",
			"attemptId", attemptID, "error", issueErr)
		go func() {
			<-allDone
			partial := make([]domain.ValidationOutcome, 0, len(results))
			for i, o := range results {
				if finished[i] {
					partial = append(partial, o)
				}
			}
			s.persist(ledgerIn, partial)
		}()
		return nil, issueErr
	}

	report := buildReport(attemptID, req, results, s.now())
	s.persist(ledgerIn, results)

	result := "failure"
	if report.Success {
		result = "success"
	}
	s.metrics.ObserveRequest(result, time.Since(started))
	s.logger.Info("Validation completed",
		"attemptId", attemptID,
		"puzzleId", req.PuzzleID,
		"passed", report.ExecutionSummary.PassedTestCases,
		"total", report.ExecutionSummary.TotalTestCases,
		"score", report.OverallScore)

	return report, nil
}

// SampleTestCases returns the active sample test cases of a puzzle
func (s *ValidationService) SampleTestCases(ctx context.Context, puzzleID uuid.UUID) ([]*domain.TestCase, error) {
	samples, err := s.store.ListTestCases(ctx, puzzleID, secondary.TestCaseFilter{Visibility: secondary.VisibilitySample})
	if err != nil {
		s.logger.Error("Failed to list sample test cases", "puzzleId", puzzleID, "error", err)
		return nil, fmt.Errorf("failed to list sample test cases: %w", err)
	}
	return samples, nil
}

// Drain waits until every outcome handed to the ledger has been written
func (s *ValidationService) Drain(ctx context.Context) error {
	return s.sink.Drain(ctx)
}

func (s *ValidationService) resolveTestCases(ctx context.Context, req ValidationRequest) ([]*domain.TestCase, error) {
	var (
		testCases []*domain.TestCase
		err       error
	)
	if len(req.TestCaseIDs) > 0 {
		testCases, err = s.store.ByIDs(ctx, req.TestCaseIDs)
	} else {
		testCases, err = s.store.ActiveTestCases(ctx, req.PuzzleID)
	}
	if err != nil {
		s.logger.Error("Failed to load test cases", "puzzleId", req.PuzzleID, "error", err)
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}

	selected := make([]*domain.TestCase, 0, len(testCases))
	for _, tc := range testCases {
		if !tc.IsActive || tc.PuzzleID != req.PuzzleID {
			continue
		}
		cp := *tc
		cp.Config = cp.Config.WithDefaults()
		selected = append(selected, &cp)
	}
	domain.SortTestCases(selected)
	return selected, nil
}

type execReply struct {
	res *secondary.ExecResult
	err error
}

var errExecutorPanic = errors.New("executor panicked")

// waitFinished waits for every issued call. A run that completed wins over a
// cancellation observed at the same moment.
func waitFinished(ctx context.Context, allDone <-chan struct{}) error {
	select {
	case <-allDone:
		return nil
	case <-ctx.Done():
	}
	select {
	case <-allDone:
		return nil
	default:
		return ctx.Err()
	}
}

func allFinished(finished []bool) bool {
	for _, ok := range finished {
		if !ok {
			return false
		}
	}
	return true
}

// runTestCase yields exactly one outcome unless the caller cancels. The executor
// sees the cancellation; a reply it still sends before the supervisory deadline
// is kept, a call it abandons yields no outcome.
func (s *ValidationService) runTestCase(ctx context.Context, tc *domain.TestCase, payload domain.Value) (domain.ValidationOutcome, bool) {
	if err := tc.Validate(); err != nil {
		s.logger.Warn("Skipping invalid test case", "testCaseId", tc.ID, "error", err)
		o := domain.NewOutcome(tc, domain.StatusError)
		o.ErrorMessage = fmt.Sprintf("%v: %v", errs.ErrInvalidTestCase, err)
		s.metrics.ObserveOutcome(string(o.Status), string(tc.Mode))
		return o, true
	}
	if tc.Mode == domain.ModeCustomFunction {
		s.logger.Warn("custom_function validation is not supported, falling back to exact_match",
			"testCaseId", tc.ID)
	}

	limit := time.Duration(tc.Config.TimeoutMs)*time.Millisecond + s.cfg.TimeoutGrace
	execCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	req := secondary.ExecRequest{
		Input:         tc.Input,
		Submission:    payload,
		TimeoutMs:     tc.Config.TimeoutMs,
		MemoryLimitMB: tc.Config.MemoryLimitMB,
	}

	replies := make(chan execReply, 1)
	started := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replies <- execReply{err: fmt.Errorf("%w: %v", errExecutorPanic, r)}
			}
		}()
		res, err := s.executor.Execute(execCtx, req)
		replies <- execReply{res: res, err: err}
	}()

	var (
		reply   execReply
		replied bool
	)
	select {
	case reply = <-replies:
		replied = true
	case <-execCtx.Done():
	}

	if ctx.Err() != nil {
		if !replied {
			reply, replied = awaitReply(replies, started.Add(limit))
		}
		if !replied || errors.Is(reply.err, context.Canceled) || errors.Is(reply.err, context.DeadlineExceeded) {
			s.logger.Debug("Executor call abandoned after cancellation", "testCaseId", tc.ID)
			return domain.ValidationOutcome{}, false
		}
	}

	var o domain.ValidationOutcome
	if replied {
		o = s.classify(tc, reply, time.Since(started))
	} else {
		o = domain.NewOutcome(tc, domain.StatusTimeout)
		o.ExecutionTimeMs = float64(time.Since(started).Milliseconds())
		o.ErrorMessage = fmt.Sprintf("execution exceeded %dms", tc.Config.TimeoutMs)
	}

	s.metrics.ObserveExecution(string(tc.Mode), time.Since(started))
	s.metrics.ObserveOutcome(string(o.Status), string(tc.Mode))
	if o.Status != domain.StatusPassed {
		s.logger.Debug("Test case not passed",
			"testCaseId", tc.ID, "status", o.Status, "error", o.ErrorMessage)
	}
	return o, true
}

func awaitReply(replies <-chan execReply, deadline time.Time) (execReply, bool) {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case reply := <-replies:
		return reply, true
	case <-timer.C:
		return execReply{}, false
	}
}

func (s *ValidationService) classify(tc *domain.TestCase, reply execReply, elapsed time.Duration) domain.ValidationOutcome {
	if reply.err != nil {
		var execErr *secondary.ExecError
		if errors.As(reply.err, &execErr) {
			o := domain.NewOutcome(tc, statusForExecError(execErr.Kind))
			o.ExecutionTimeMs = execErr.ExecutionTimeMs
			o.MemoryUsageMB = execErr.MemoryUsageMB
			o.ErrorMessage = execErr.Message
			if o.ErrorMessage == "" {
				o.ErrorMessage = string(execErr.Kind)
			}
			return o
		}
		if errors.Is(reply.err, context.DeadlineExceeded) {
			o := domain.NewOutcome(tc, domain.StatusTimeout)
			o.ExecutionTimeMs = float64(elapsed.Milliseconds())
			o.ErrorMessage = reply.err.Error()
			return o
		}
		o := domain.NewOutcome(tc, domain.StatusError)
		o.ExecutionTimeMs = float64(elapsed.Milliseconds())
		o.ErrorMessage = reply.err.Error()
		return o
	}
	if reply.res == nil {
		o := domain.NewOutcome(tc, domain.StatusError)
		o.ErrorMessage = "executor returned no result"
		return o
	}

	res := reply.res
	timeMs := res.ExecutionTimeMs
	if timeMs <= 0 {
		timeMs = float64(elapsed.Milliseconds())
	}

	var o domain.ValidationOutcome
	switch {
	case timeMs > float64(tc.Config.TimeoutMs):
		o = domain.NewOutcome(tc, domain.StatusTimeout)
		o.ErrorMessage = fmt.Sprintf("execution took %vms, limit is %dms", timeMs, tc.Config.TimeoutMs)
	case res.MemoryUsageMB > float64(tc.Config.MemoryLimitMB):
		o = domain.NewOutcome(tc, domain.StatusMemoryExceeded)
		o.ErrorMessage = fmt.Sprintf("execution used %vMB, limit is %dMB", res.MemoryUsageMB, tc.Config.MemoryLimitMB)
	case comparator.Compare(tc.Mode, res.Output, tc.ExpectedOutput, tc.Config):
		o = domain.NewOutcome(tc, domain.StatusPassed)
	default:
		o = domain.NewOutcome(tc, domain.StatusFailed)
	}
	o.ActualOutput = res.Output
	o.ExecutionTimeMs = timeMs
	o.MemoryUsageMB = res.MemoryUsageMB
	return o
}

func statusForExecError(kind secondary.ExecErrorKind) domain.Status {
	switch kind {
	case secondary.ExecErrorTimeout:
		return domain.StatusTimeout
	case secondary.ExecErrorMemoryExceeded:
		return domain.StatusMemoryExceeded
	default:
		return domain.StatusError
	}
}

func (s *ValidationService) persist(in domain.LedgerInput, outcomes []domain.ValidationOutcome) {
	if len(outcomes) == 0 {
		return
	}
	records := make([]domain.LedgerRecord, 0, len(outcomes))
	for _, o := range outcomes {
		records = append(records, domain.NewLedgerRecord(in, o))
	}
	s.sink.Submit(records)
}
