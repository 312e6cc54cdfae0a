package confluence

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// requestTimeout bounds each individual paginated request, not the whole listing.
const requestTimeout = 30 * time.Second

func (api API) ListAllSpaces(ctx context.Context, orgName string, includePersonal bool) (map[string]Space, error) {
	spaces := map[string]Space{}

	query := SpacesQuery{
		Limit: 250,
	}

	if !includePersonal {
		// Logic here is a bit confusing.  The `type` parameter may be "global", "personal", or
		// nothing at all for both.  "global" will return spaces like DRE, CORE, etc., while
		// "personal" returns each user's space.  Leaving it empty gives us everything, so we only
		// set this if we _do not_ intend to include personal spaces in our query.
		query.Type = "global"
	}

	for {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		allspaces, err := api.getSpaces(reqCtx, query)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list spaces: %w", err)
		}

		for _, space := range allspaces.Results {
			space.Org = orgName
			spaces[space.Key] = space
		}

		cursor, more, err := nextCursor(allspaces.Links)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		query.Cursor = cursor
	}

	return spaces, nil
}

// ListPagesInSpace lists every page in one space, including each page's storage-format body.
func (api API) ListPagesInSpace(ctx context.Context, space Space, includeArchived bool) ([]Page, error) {
	id, err := strconv.Atoi(space.ID)
	if err != nil {
		return nil, fmt.Errorf("confluence(%s): space id was not an int: %w", space.Key, err)
	}

	query := GetPagesQuery{
		SpaceID:    []int{id},
		Status:     []string{"current"},
		BodyFormat: "storage",
		Limit:      250,
	}
	if includeArchived {
		query.Status = append(query.Status, "archived")
	}

	pages := []Page{}
	for {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		result, err := api.GetPages(reqCtx, query)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("confluence: failed getting partial page list for %s: %w", space.Key, err)
		}
		pages = append(pages, result.Results...)

		cursor, more, err := nextCursor(result.Links)
		if err != nil {
			return nil, err
		}
		if !more {
			return pages, nil
		}
		query.Cursor = cursor
	}
}

// ListPagesInSpaces lists several spaces at once, with at most `workers` listings in flight.  The
// first failure cancels the rest and is returned.  Pages come back ordered by space key, then in
// API order.
func (api API) ListPagesInSpaces(ctx context.Context, spaces []Space, includeArchived bool, workers int) ([]Page, error) {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	perSpace := make(map[string][]Page, len(spaces))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for _, space := range spaces {
		space := space
		grp.Go(func() error {
			pages, err := api.ListPagesInSpace(gctx, space, includeArchived)
			if err != nil {
				return err
			}
			mu.Lock()
			perSpace[space.Key] = pages
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(perSpace))
	for k := range perSpace {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	all := []Page{}
	for _, k := range keys {
		all = append(all, perSpace[k]...)
	}
	return all, nil
}

// ListAttachments returns every attachment on one page.
func (api API) ListAttachments(ctx context.Context, pageID string) ([]Attachment, error) {
	id, err := strconv.Atoi(pageID)
	if err != nil {
		return nil, fmt.Errorf("confluence: page id %s was not an int: %w", pageID, err)
	}

	query := GetAttachmentsQuery{PageID: id, Limit: 250}
	attachments := []Attachment{}
	for {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		result, err := api.GetAttachments(reqCtx, query)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("confluence: failed listing attachments of %s: %w", pageID, err)
		}
		attachments = append(attachments, result.Results...)

		cursor, more, err := nextCursor(result.Links)
		if err != nil {
			return nil, err
		}
		if !more {
			return attachments, nil
		}
		query.Cursor = cursor
	}
}

func nextCursor(links Links) (string, bool, error) {
	if links.Next == "" {
		return "", false, nil
	}

	q, err := url.Parse(links.Next)
	if err != nil {
		return "", false, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
	}
	cursor := q.Query().Get("cursor")
	if cursor == "" {
		return "", false, fmt.Errorf("confluence: expected parameter 'cursor' was empty")
	}
	return cursor, true, nil
}
