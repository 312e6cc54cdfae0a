package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

func (api *API) GetPageByID(ctx context.Context, opts GetPageByIDQuery) (*Page, error) {
	ep, err := api.getPageByIDEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get single page endpoint: %w", err)
	}

	var page Page
	if err := api.getJSON(ctx, ep, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (api *API) GetPages(ctx context.Context, opts GetPagesQuery) (*MultiPageResponse, error) {
	ep, err := api.getPagesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get pages endpoint: %w", err)
	}

	var pageList MultiPageResponse
	if err := api.getJSON(ctx, ep, &pageList); err != nil {
		return nil, err
	}

	return &pageList, nil
}

func (api *API) GetAttachments(ctx context.Context, opts GetAttachmentsQuery) (*MultiAttachmentResponse, error) {
	ep, err := api.getAttachmentsEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get attachments endpoint: %w", err)
	}

	var attachments MultiAttachmentResponse
	if err := api.getJSON(ctx, ep, &attachments); err != nil {
		return nil, err
	}

	return &attachments, nil
}

func (api *API) getSpaces(ctx context.Context, opts SpacesQuery) (*AllSpaces, error) {
	ep, err := api.getSpaceEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get spaces endpoint: %w", err)
	}

	var allSpaces AllSpaces
	if err := api.getJSON(ctx, ep, &allSpaces); err != nil {
		return nil, err
	}

	return &allSpaces, nil
}

// CurrentUser return current user information
func (api *API) CurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get current user endpoint: %w", err)
	}

	var user User
	if err := api.getJSON(ctx, ep, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// DownloadTo streams an attachment's content into w.
func (api *API) DownloadTo(ctx context.Context, attachment Attachment, w io.Writer) (int64, error) {
	ep, err := api.getDownloadEndpoint(attachment.DownloadLink)
	if err != nil {
		return 0, err
	}

	response, err := api.do(ctx, ep, "*/*")
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	if err := checkStatus(response, ep); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, response.Body)
	if err != nil {
		return n, fmt.Errorf("confluence: couldn't read attachment %s: %w", attachment.Title, err)
	}

	return n, nil
}

func (api *API) getJSON(ctx context.Context, ep *url.URL, into any) error {
	body, err := api.request(ctx, ep)
	if err != nil {
		return fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return nil
}

// Request implements the basic Request function
func (api *API) request(ctx context.Context, url *url.URL) ([]byte, error) {
	response, err := api.do(ctx, url, "application/json, */*")
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		response.Body.Close()
		return nil, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	if err := checkStatus(response, url); err != nil {
		return nil, err
	}

	return body, nil
}

func (api *API) do(ctx context.Context, url *url.URL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", accept)

	// if user & token are not set, do not add authorization header
	if api.username != "" && api.token != "" {
		req.SetBasicAuth(api.username, api.token)
	} else if api.token != "" {
		req.Header.Set("Authorization", "Bearer "+api.token)
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	return response, nil
}

func checkStatus(response *http.Response, url *url.URL) error {
	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("confluence: authentication failed")
	case http.StatusNotFound:
		return fmt.Errorf("confluence: not found: %s", url.String())
	case http.StatusServiceUnavailable:
		return fmt.Errorf("confluence: service is not available: %s", response.Status)
	case http.StatusInternalServerError:
		return fmt.Errorf("confluence: internal server error: %s", response.Status)
	case http.StatusConflict:
		return fmt.Errorf("confluence: conflict: %s", response.Status)
	}

	return fmt.Errorf("confluence: unknown HTTP response status: %s: %s", response.Status, url.String())
}
