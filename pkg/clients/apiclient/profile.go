package apiclient

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
)

// GetProfile retrieves the authenticated user's profile envelope
func (c *Client) GetProfile(ctx context.Context) (*model.ProfileEnvelope, error) {
	var env model.ProfileEnvelope
	if err := c.doRequest(ctx, http.MethodGet, PathProfile, nil, &env); err != nil {
		c.logger.Warn("Failed to get profile", zap.Error(err))
		return nil, err
	}
	return &env, nil
}

// GetVolunteerProfile retrieves the profile and decodes it as a volunteer
func (c *Client) GetVolunteerProfile(ctx context.Context) (*model.Volunteer, error) {
	env, err := c.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return env.DecodeVolunteer()
}

// UpdateProfile sends the field -> value update. The response body is ignored.
func (c *Client) UpdateProfile(ctx context.Context, update map[string]any) error {
	if err := c.doRequest(ctx, http.MethodPut, PathProfile, update, nil); err != nil {
		c.logger.Error("Failed to update profile", zap.Error(err))
		return err
	}
	return nil
}
