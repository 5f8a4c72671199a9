package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orderlens/backend/internal/domain"
	"go.uber.org/zap"
)

// Turn outcomes reported to the observer
const (
	OutcomeConfirmed      = "confirmed"
	OutcomeNotUnderstood  = "not_understood"
	OutcomeStockExhausted = "stock_exhausted"
	OutcomeRejected       = "rejected"
	OutcomeTimeout        = "timeout"
	OutcomeError          = "error"
)

// TurnObserver receives per-turn measurements. Implementations must be safe
// for concurrent use.
type TurnObserver interface {
	ObserveTurn(outcome string, duration time.Duration)
	ObserveMatch(category string)
}

type nopObserver struct{}

func (nopObserver) ObserveTurn(string, time.Duration) {}
func (nopObserver) ObserveMatch(string)               {}

// OrderServiceConfig holds configuration for the order service
type OrderServiceConfig struct {
	Match             MatchConfig
	Accumulator       AccumulatorConfig
	MaxUtteranceRunes int
	TurnTimeout       time.Duration
}

// OrderService runs conversation turns: it owns nothing but wiring, the
// order state lives in the session repository, one record per conversation.
type OrderService struct {
	sessions     domain.SessionRepository
	dictionaries domain.DictionaryProvider
	preprocessor *UtterancePreprocessor
	accumulator  *OrderAccumulator
	observer     TurnObserver
	turnTimeout  time.Duration
	logger       *zap.Logger
}

// NewOrderService creates a new order service with dependencies
func NewOrderService(
	sessions domain.SessionRepository,
	dictionaries domain.DictionaryProvider,
	observer TurnObserver,
	config OrderServiceConfig,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}

	turnTimeout := config.TurnTimeout
	if turnTimeout <= 0 {
		turnTimeout = 2 * time.Second
	}

	matcher := NewKeywordMatcher(config.Match, logger)
	return &OrderService{
		sessions:     sessions,
		dictionaries: dictionaries,
		preprocessor: NewUtterancePreprocessor(config.MaxUtteranceRunes),
		accumulator:  NewOrderAccumulator(matcher, config.Accumulator, logger),
		observer:     observer,
		turnTimeout:  turnTimeout,
		logger:       logger.Named("orders"),
	}
}

// StartSession opens a new conversation with an empty order.
func (s *OrderService) StartSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("session started", zap.String("session", session.ID))
	return session, nil
}

// GetSession returns the conversation and its accumulated (unresolved) order.
func (s *OrderService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// ResetSession clears the accumulated order but keeps the conversation.
func (s *OrderService) ResetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.Update(ctx, sessionID, func(order *domain.OrderSlots) error {
		*order = domain.OrderSlots{}
		return nil
	})
}

// EndSession discards the conversation.
func (s *OrderService) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Debug("session ended", zap.String("session", sessionID))
	return nil
}

// ProcessTurn applies one utterance to the conversation's order.
// Flow: clean -> match every category -> merge + cancel -> defaults ->
// stock gate -> confirmation + option code.
//
// Failures come back as errors matching domain.ErrNotUnderstood,
// domain.ErrStockExhausted, domain.ErrInvalidRequest,
// domain.ErrUtteranceTooLong, domain.ErrSessionNotFound or
// context.DeadlineExceeded.
func (s *OrderService) ProcessTurn(ctx context.Context, sessionID, utterance string) (*domain.TurnResult, error) {
	started := time.Now()
	result, err := s.processTurn(ctx, sessionID, utterance)
	s.observer.ObserveTurn(outcomeOf(err), time.Since(started))
	if result != nil {
		for _, m := range result.Matches {
			s.observer.ObserveMatch(m.Field)
		}
	}
	return result, err
}

func (s *OrderService) processTurn(ctx context.Context, sessionID, utterance string) (*domain.TurnResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", domain.ErrInvalidRequest)
	}

	cleaned, err := s.preprocessor.Clean(utterance)
	if err != nil {
		return nil, err
	}

	dict, err := s.dictionaries.Current()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	var (
		result  *domain.TurnResult
		turnErr error
	)
	_, err = s.sessions.Update(ctx, sessionID, func(order *domain.OrderSlots) error {
		next, res, err := s.accumulator.ProcessTurn(ctx, *order, cleaned, dict)
		if err != nil && !errors.Is(err, domain.ErrNotUnderstood) {
			return err
		}
		*order = next
		result, turnErr = res, err
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("turn exceeded budget",
				zap.String("session", sessionID),
				zap.Int("runes", len([]rune(cleaned))),
				zap.Duration("budget", s.turnTimeout))
		}
		return nil, err
	}

	if turnErr != nil {
		return nil, turnErr
	}

	s.logger.Info("turn confirmed",
		zap.String("session", sessionID),
		zap.String("menu", result.Order.Menu),
		zap.String("optionCode", result.OptionCode))
	return result, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeConfirmed
	case errors.Is(err, domain.ErrNotUnderstood):
		return OutcomeNotUnderstood
	case errors.Is(err, domain.ErrStockExhausted):
		return OutcomeStockExhausted
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUtteranceTooLong),
		errors.Is(err, domain.ErrSessionNotFound):
		return OutcomeRejected
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
