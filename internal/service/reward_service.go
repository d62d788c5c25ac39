package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"opinai/internal/metrics"
	"opinai/internal/repository"

	"go.uber.org/zap"
)

var ErrMalformedReward = errors.New("malformed reward value")

// PointsPerCurrencyUnit converts one currency unit (R$ 1,00) into points
const PointsPerCurrencyUnit = 10.0

// MaxRewardAmount is the largest amount a single completion may credit
const MaxRewardAmount = 1_000_000.0

const currencySymbol = "R$"

// Digits with at most one decimal separator. Signs, exponents and hex floats are not amounts.
var amountPattern = regexp.MustCompile(`^[0-9]+(?:[.,][0-9]+)?$`)

// ParseReward converts a currency-formatted value such as "R$ 3,50" into a points delta (35).
// Amounts above MaxRewardAmount are rejected.
func ParseReward(valor string) (float64, error) {
	s := strings.TrimSpace(valor)
	s = strings.TrimSpace(strings.TrimPrefix(s, currencySymbol))
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedReward, valor)
	}

	amount, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || amount > MaxRewardAmount {
		return 0, fmt.Errorf("%w: %q", ErrMalformedReward, valor)
	}
	delta := amount * PointsPerCurrencyUnit
	if math.IsInf(delta, 0) || math.IsNaN(delta) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedReward, valor)
	}
	return delta, nil
}

// RewardService credits points for completed surveys
type RewardService interface {
	// CompleteSurvey credits the points for valor to the user and returns the new balance.
	// The same survey may be completed, and credited, more than once.
	CompleteSurvey(ctx context.Context, userID, surveyID, valor string) (float64, error)
}

type rewardService struct {
	userRepo repository.UserRepository
}

// NewRewardService creates a new RewardService
func NewRewardService(userRepo repository.UserRepository) RewardService {
	return &rewardService{userRepo: userRepo}
}

func (s *rewardService) CompleteSurvey(ctx context.Context, userID, surveyID, valor string) (float64, error) {
	delta, err := ParseReward(valor)
	if err != nil {
		metrics.RewardRejections.Inc()
		return 0, err
	}

	total, err := s.userRepo.IncrementPoints(ctx, userID, delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUnauthorized
		}
		return 0, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		zap.L().Error("points balance is no longer finite", zap.String("user_id", userID), zap.Float64("points", delta))
		return 0, fmt.Errorf("%w: balance overflow", ErrStoreWrite)
	}

	metrics.SurveysCompleted.Inc()
	metrics.PointsAwarded.Add(delta)
	zap.L().Info("survey completed",
		zap.String("user_id", userID),
		zap.String("survey_id", surveyID),
		zap.Float64("points", delta),
		zap.Float64("balance", total),
	)
	return total, nil
}
