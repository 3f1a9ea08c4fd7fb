// Package googletasks implements service.Exporter using the Google Tasks API.
package googletasks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks fetched per request.
	PageSize = 100

	// APITimeout is the timeout for a single API call.
	APITimeout = 5 * time.Second

	// markerPrefix starts the notes line that links a remote task to a local id.
	markerPrefix = "todo-id: "
	timePrefix   = "time: "

	remoteCompleted   = "completed"
	remoteNeedsAction = "needsAction"
)

// Client implements service.Exporter using Google Tasks API.
type Client struct {
	svc *tasks.Service
	log *zap.Logger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json in the data directory.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	if !cfg.HasOAuthClient() {
		return nil, ErrNoOAuthClient
	}
	if !cfg.HasToken() {
		return nil, ErrNotLoggedIn
	}

	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// Token source refreshes the access token as needed
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	return NewWithHTTPClient(ctx, httpClient, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options (e.g. option.WithEndpoint) are passed to the API service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, log *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, log: log}, nil
}

// ListLists returns all task lists in API order.
func (c *Client) ListLists(ctx context.Context) ([]service.RemoteList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	// The default list is only identifiable by comparing real IDs
	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	var result []service.RemoteList
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			isDefault := list.Id == defaultList.Id
			id := list.Id
			if isDefault {
				id = DefaultListID
			}
			result = append(result, service.RemoteList{
				ID:        id,
				Title:     list.Title,
				IsDefault: isDefault,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// Export mirrors tasks into the named list (default list when name is empty).
// Remote tasks are matched to local ones through a marker line in their
// notes; remote tasks without a marker are never touched. A repeated local
// id is skipped after its first occurrence.
func (c *Client) Export(ctx context.Context, listName string, local []service.Task) (service.ExportResult, error) {
	listID, err := c.resolveList(ctx, listName)
	if err != nil {
		return service.ExportResult{}, err
	}

	remote, err := c.exportedTasks(ctx, listID)
	if err != nil {
		return service.ExportResult{}, err
	}

	var res service.ExportResult
	seen := make(map[string]bool, len(local))
	for _, t := range local {
		if seen[t.ID] {
			res.Skipped++
			continue
		}
		seen[t.ID] = true
		want := toRemote(t)

		existing, ok := remote[t.ID]
		if !ok {
			created, err := c.insert(ctx, listID, want)
			if err != nil {
				return res, err
			}
			remote[t.ID] = created
			res.Created++
			continue
		}

		if existing.Title == want.Title && existing.Status == want.Status && existing.Notes == want.Notes {
			res.Unchanged++
			continue
		}
		if err := c.patch(ctx, listID, existing.Id, want); err != nil {
			return res, err
		}
		res.Updated++
	}

	c.log.Debug("export finished",
		zap.String("list", listID),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// resolveList finds a list ID by title (case-insensitive, trimmed).
func (c *Client) resolveList(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultListID, nil
	}
	nameLower := strings.ToLower(name)

	lists, err := c.ListLists(ctx)
	if err != nil {
		return "", err
	}

	var matches []service.RemoteList
	for _, list := range lists {
		if strings.ToLower(strings.TrimSpace(list.Title)) == nameLower {
			matches = append(matches, list)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("list not found: %s", name)
	case 1:
		return matches[0].ID, nil
	default:
		return "", fmt.Errorf("ambiguous list name: %s", name)
	}
}

// exportedTasks returns remote tasks carrying a marker, keyed by local id.
func (c *Client) exportedTasks(ctx context.Context, listID string) (map[string]*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := make(map[string]*tasks.Task)
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if id := markerID(t.Notes); id != "" {
					result[id] = t
				}
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

func (c *Client) insert(ctx context.Context, listID string, t *tasks.Task) (*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(listID, t).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}
	return created, nil
}

func (c *Client) patch(ctx context.Context, listID, taskID string, t *tasks.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Patch(listID, taskID, t).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// toRemote maps a local task to its Google Tasks shape.
func toRemote(t service.Task) *tasks.Task {
	status := remoteNeedsAction
	if strings.EqualFold(strings.TrimSpace(t.Status), service.StatusCompleted) {
		status = remoteCompleted
	}
	return &tasks.Task{
		Title:  t.Task,
		Notes:  notesFor(t),
		Status: status,
	}
}

func notesFor(t service.Task) string {
	notes := markerPrefix + t.ID
	if t.Time != "" {
		notes += "\n" + timePrefix + t.Time
	}
	return notes
}

// markerID extracts the local id from remote notes, or "".
func markerID(notes string) string {
	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, markerPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, markerPrefix))
		}
	}
	return ""
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todo login)")
	}
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}
	return err
}
