package matzip

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ChatSearch runs one conversational search and returns the narrated
// answer with the ranked results.
func (c *Client) ChatSearch(ctx context.Context, req ChatSearchRequest) (out *ChatSearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("chat_search", start, err) }()

	if req.Query == "" {
		return nil, fmt.Errorf("matzip: query required: %w", ErrInvalidArgument)
	}

	out = &ChatSearchResponse{}
	if err = c.do(ctx, "POST", "/v1/chat/search", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Restaurant fetches the detail record of one place.
func (c *Client) Restaurant(ctx context.Context, placeID string) (out *Restaurant, err error) {
	start := time.Now()
	defer func() { c.obs.observe("restaurant", start, err) }()

	if placeID == "" {
		return nil, fmt.Errorf("matzip: place id required: %w", ErrInvalidArgument)
	}

	out = &Restaurant{}
	if err = c.do(ctx, "GET", "/v1/restaurants/"+url.PathEscape(placeID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations returns places similar to the source restaurant.
// limit <= 0 uses the server default.
func (c *Client) Recommendations(ctx context.Context, placeID string, limit int) (out *RecommendResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommendations", start, err) }()

	if placeID == "" {
		return nil, fmt.Errorf("matzip: place id required: %w", ErrInvalidArgument)
	}

	path := "/v1/restaurants/" + url.PathEscape(placeID) + "/recommend"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	out = &RecommendResponse{}
	if err = c.do(ctx, "GET", path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Preferences fetches one user's stored aspect profile.
func (c *Client) Preferences(ctx context.Context, userID string) (out *Preferences, err error) {
	start := time.Now()
	defer func() { c.obs.observe("preferences_get", start, err) }()

	if userID == "" {
		return nil, fmt.Errorf("matzip: user id required: %w", ErrInvalidArgument)
	}

	out = &Preferences{}
	if err = c.do(ctx, "GET", "/v1/users/"+url.PathEscape(userID)+"/preferences", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePreferences merges the given aspect scores (0..5 scale) into the
// user's stored profile and returns the profile after the merge.
func (c *Client) UpdatePreferences(ctx context.Context, userID string, prefs map[string]float64) (out *Preferences, err error) {
	start := time.Now()
	defer func() { c.obs.observe("preferences_update", start, err) }()

	if userID == "" {
		return nil, fmt.Errorf("matzip: user id required: %w", ErrInvalidArgument)
	}
	if len(prefs) == 0 {
		return nil, fmt.Errorf("matzip: at least one preference required: %w", ErrInvalidArgument)
	}

	out = &Preferences{}
	if err = c.do(ctx, "PATCH", "/v1/users/"+url.PathEscape(userID)+"/preferences", prefs, out); err != nil {
		return nil, err
	}
	return out, nil
}
