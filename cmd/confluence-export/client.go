/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/toothbrush/confluence-export/confluence"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

const tokenEnv = "CONFLUENCE_API_TOKEN"

// resolveToken prefers --auth-token-cmd, then $CONFLUENCE_API_TOKEN (optionally loaded from
// --env-file).
func resolveToken() (string, error) {
	if EnvFile != "" {
		envFile, err := homedir.Expand(EnvFile)
		if err != nil {
			return "", fmt.Errorf("cmd: couldn't expand homedir: %w", err)
		}
		// Load never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("cmd: couldn't load env file %s: %w", envFile, err)
		}
	}

	if len(AuthTokenCmd) > 0 {
		out, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
		if err != nil {
			return "", fmt.Errorf("cmd: couldn't execute auth-token-cmd '%v': %w", AuthTokenCmd, err)
		}
		return strings.Split(string(out), "\n")[0], nil
	}

	if token := os.Getenv(tokenEnv); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("cmd: no auth token, set --auth-token-cmd or %s", tokenEnv)
}

// apiClient builds the Confluence client.  The returned stop func must be called once the client
// is done with, so a VCR cassette gets saved.
func apiClient(withVCR bool) (*confluence.API, func(), error) {
	token, err := resolveToken()
	if err != nil {
		return nil, nil, err
	}

	api, err := confluence.NewAPI(ConfluenceInstance, AuthUsername, token)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: couldn't instantiate Confluence API: %w", err)
	}

	if !withVCR {
		return api, func() {}, nil
	}

	opts := &recorder.Options{
		CassetteName:       "fixtures/confluence-export",
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
	}

	// Never write credentials into the cassette.
	r.AddHook(func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	api.Client = r.GetDefaultClient()
	stop := func() {
		if err := r.Stop(); err != nil {
			debugLog("Couldn't save VCR cassette: %v\n", err)
		}
	}
	return api, stop, nil
}

// resolveSpaces looks up the requested space keys.  The returned label map is keyed by space ID,
// which is how pages refer to their space.
func resolveSpaces(ctx context.Context, api *confluence.API, keys []string) ([]confluence.Space, map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("cmd: no spaces requested, use --space")
	}

	all, err := api.ListAllSpaces(ctx, ConfluenceInstance, true)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: couldn't list Confluence spaces: %w", err)
	}

	spaces := make([]confluence.Space, 0, len(keys))
	labels := map[string]string{}
	for _, key := range keys {
		space, ok := all[key]
		if !ok {
			return nil, nil, fmt.Errorf("cmd: couldn't find space %s", key)
		}
		spaces = append(spaces, space)
		labels[space.ID] = fmt.Sprintf("%s (%s)", space.Name, space.Key)
	}
	return spaces, labels, nil
}
