package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/luevano/libyomu/tracker"
)

type apiRequestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type apiResponse[Data any] struct {
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
	Data Data `json:"data"`
}

func sendRequest[Data any](
	ctx context.Context,
	anilist *Anilist,
	requestBody apiRequestBody,
) (data Data, err error) {
	marshalled, err := json.Marshal(requestBody)
	if err != nil {
		return data, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(marshalled))
	if err != nil {
		return data, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if anilist.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+anilist.options.Token)
	}

	resp, err := anilist.options.HTTPClient.Do(req)
	if err != nil {
		return data, err
	}
	defer resp.Body.Close()

	// https://anilist.gitbook.io/anilist-apiv2-docs/overview/rate-limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		if retryAfter == "" {
			// 90 seconds
			retryAfter = "90"
		}

		seconds, err := strconv.Atoi(retryAfter)
		if err != nil {
			return data, err
		}

		anilist.logger.Log("rate limited, retrying in %d seconds", seconds)

		select {
		case <-time.After(time.Duration(seconds) * time.Second):
		case <-ctx.Done():
			return data, ctx.Err()
		}

		return sendRequest[Data](ctx, anilist, requestBody)
	}

	if resp.StatusCode != http.StatusOK {
		return data, fmt.Errorf("unexpected http status: %s", resp.Status)
	}

	var res apiResponse[Data]
	err = json.NewDecoder(resp.Body).Decode(&res)
	if err != nil {
		return data, err
	}

	if res.Errors != nil {
		return data, errors.New(res.Errors[0].Message)
	}

	return res.Data, nil
}

func (p *Anilist) cachedSearch(query string) ([]tracker.RemoteEntry, bool, error) {
	if p.options.SearchCache == nil {
		return nil, false, nil
	}

	var entries []tracker.RemoteEntry
	found, err := p.options.SearchCache.Get(query, &entries)
	return entries, found, err
}

func (p *Anilist) cacheSearch(query string, entries []tracker.RemoteEntry) error {
	if p.options.SearchCache == nil {
		return nil
	}
	return p.options.SearchCache.Set(query, entries)
}
