package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
)

// CategoryClient defines the reference data calls needed to load every category kind
type CategoryClient interface {
	GetOds(ctx context.Context) ([]model.Ods, error)
	GetSkills(ctx context.Context) ([]model.Skill, error)
	GetNeeds(ctx context.Context) ([]model.Need, error)
	GetInterests(ctx context.Context) ([]model.Interest, error)
}

// CategoryResult is the outcome of fetching one category kind
type CategoryResult[T any] struct {
	Items []T
	Err   error
}

// Categories holds the outcome of every category fetch
type Categories struct {
	Ods       CategoryResult[model.Ods]
	Skills    CategoryResult[model.Skill]
	Needs     CategoryResult[model.Need]
	Interests CategoryResult[model.Interest]
}

// Err returns the first fetch error, if any
func (c *Categories) Err() error {
	for _, err := range []error{c.Ods.Err, c.Skills.Err, c.Needs.Err, c.Interests.Err} {
		if err != nil {
			return err
		}
	}
	return nil
}

// FetchAllCategories fetches each category kind in turn. A failing kind is recorded
// with an empty list and never prevents the remaining kinds from being fetched.
// Interests are fetched last so callers can chain on their completion.
func FetchAllCategories(ctx context.Context, client CategoryClient, logger *zap.Logger) *Categories {
	result := &Categories{}

	result.Ods.Items, result.Ods.Err = client.GetOds(ctx)
	logCategoryResult(logger, "ods", len(result.Ods.Items), result.Ods.Err)

	result.Skills.Items, result.Skills.Err = client.GetSkills(ctx)
	logCategoryResult(logger, "skills", len(result.Skills.Items), result.Skills.Err)

	result.Needs.Items, result.Needs.Err = client.GetNeeds(ctx)
	logCategoryResult(logger, "needs", len(result.Needs.Items), result.Needs.Err)

	result.Interests.Items, result.Interests.Err = client.GetInterests(ctx)
	logCategoryResult(logger, "interests", len(result.Interests.Items), result.Interests.Err)

	return result
}

func logCategoryResult(logger *zap.Logger, kind string, count int, err error) {
	if err != nil {
		logger.Warn("Category fetch failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	logger.Debug("Category fetched", zap.String("kind", kind), zap.Int("count", count))
}
