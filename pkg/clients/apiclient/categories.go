package apiclient

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
)

// Reference data endpoints
const (
	PathCycles    = "/api/ciclos"
	PathSkills    = "/api/categories/habilidades"
	PathInterests = "/api/categories/intereses"
	PathNeeds     = "/api/categories/necesidades"
	PathOds       = "/api/categories/ods"
	PathProfile   = "/api/auth/profile"
)

// GetCycles retrieves every training cycle
func (c *Client) GetCycles(ctx context.Context) ([]model.Cycle, error) {
	var cycles []model.Cycle
	if err := c.doRequest(ctx, http.MethodGet, PathCycles, nil, &cycles); err != nil {
		c.logger.Warn("Failed to get cycles", zap.Error(err))
		return nil, err
	}
	return cycles, nil
}

// GetSkills retrieves the skill master list
func (c *Client) GetSkills(ctx context.Context) ([]model.Skill, error) {
	var skills []model.Skill
	if err := c.doRequest(ctx, http.MethodGet, PathSkills, nil, &skills); err != nil {
		c.logger.Warn("Failed to get skills", zap.Error(err))
		return nil, err
	}
	return skills, nil
}

// GetInterests retrieves the interest master list
func (c *Client) GetInterests(ctx context.Context) ([]model.Interest, error) {
	var interests []model.Interest
	if err := c.doRequest(ctx, http.MethodGet, PathInterests, nil, &interests); err != nil {
		c.logger.Warn("Failed to get interests", zap.Error(err))
		return nil, err
	}
	return interests, nil
}

// GetNeeds retrieves the need master list
func (c *Client) GetNeeds(ctx context.Context) ([]model.Need, error) {
	var needs []model.Need
	if err := c.doRequest(ctx, http.MethodGet, PathNeeds, nil, &needs); err != nil {
		c.logger.Warn("Failed to get needs", zap.Error(err))
		return nil, err
	}
	return needs, nil
}

// GetOds retrieves the sustainable development goals
func (c *Client) GetOds(ctx context.Context) ([]model.Ods, error) {
	var ods []model.Ods
	if err := c.doRequest(ctx, http.MethodGet, PathOds, nil, &ods); err != nil {
		c.logger.Warn("Failed to get ODS", zap.Error(err))
		return nil, err
	}
	return ods, nil
}
