package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/threerealms/mapserver/internal/bus"
	"github.com/threerealms/mapserver/internal/model"
	"github.com/threerealms/mapserver/internal/server"
)

const (
	warStatusTimeout       = 5 * time.Second
	maxConsecutiveFeedFail = 3
)

// warStatusFeed is the inbound shape described in spec.md §6: a list of
// forts, each carrying a display name with a trailing "(id)" territory
// identifier and a case-insensitive realm name as owner.
type warStatusFeed struct {
	Forts []struct {
		Name  string `json:"name"`
		Owner string `json:"owner"`
	} `json:"forts"`
}

var territoryIDPattern = regexp.MustCompile(`\(([\w-]+)\)$`)

// TerritoryWorker polls the external war-status feed and diffs reported
// ownership against the cached/persisted state, recording a capture row
// and broadcasting for each realm change.
type TerritoryWorker struct {
	sc             *server.Context
	feedURL        string
	httpClient     *http.Client
	consecutiveErr int
}

// NewTerritoryWorker constructs a TerritoryWorker polling feedURL.
func NewTerritoryWorker(sc *server.Context, feedURL string) *TerritoryWorker {
	return &TerritoryWorker{
		sc:         sc,
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: warStatusTimeout},
	}
}

// Name identifies this worker in logs and metrics.
func (w *TerritoryWorker) Name() string { return "territory" }

// Tick fetches the war-status feed, resolves each fort name to a
// territory ID, and records a capture for any realm ownership change.
func (w *TerritoryWorker) Tick(ctx context.Context) error {
	feed, err := w.fetchFeed(ctx)
	if err != nil {
		w.consecutiveErr++
		slog.Warn("territory worker: feed fetch failed", "error", err, "consecutiveFailures", w.consecutiveErr)
		if w.consecutiveErr >= maxConsecutiveFeedFail {
			slog.Error("territory worker: war-status feed failing repeatedly", "consecutiveFailures", w.consecutiveErr)
		}
		return nil // skip this tick, per spec.md ExternalFeedFailed policy
	}
	w.consecutiveErr = 0

	territories, err := w.sc.Territories.All(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]*model.Territory, len(territories))
	for _, t := range territories {
		byID[t.TerritoryID] = t
	}

	for _, fort := range feed.Forts {
		if fort.Owner == "" {
			continue
		}
		territoryID := extractTerritoryID(fort.Name)
		if territoryID == "" {
			continue
		}
		t, ok := byID[territoryID]
		if !ok {
			continue
		}
		newRealm := model.Realm(strings.ToUpper(fort.Owner))
		if !model.ValidRealm(newRealm) || newRealm == t.OwnerRealm {
			continue
		}

		capture := &model.TerritoryCapture{
			CaptureID:   uuid.NewString(),
			TerritoryID: t.TerritoryID,
			FromRealm:   t.OwnerRealm,
			ToRealm:     newRealm,
			CapturedAt:  time.Now(),
		}
		if err := w.sc.Territories.Capture(ctx, capture, 0); err != nil {
			slog.Warn("territory worker: recording capture failed", "territoryId", t.TerritoryID, "error", err)
			continue
		}

		t.OwnerRealm = newRealm
		t.Health = 0
		t.Contested = t.Health < t.MaxHealth
		t.ContestedSince = time.Now()
		w.sc.Cache.PutTerritory(ctx, t)
		w.sc.Bus.BroadcastGlobal(bus.Event{Name: "territories:capture", Payload: capture})
	}
	return nil
}

func (w *TerritoryWorker) fetchFeed(ctx context.Context) (*warStatusFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building war-status request: %w", err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching war-status feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("war-status feed returned status %d", resp.StatusCode)
	}
	var feed warStatusFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding war-status feed: %w", err)
	}
	return &feed, nil
}

// extractTerritoryID pulls the trailing "(id)" suffix out of a fort's
// display name, e.g. "Keep (17)" -> "17".
func extractTerritoryID(name string) string {
	m := territoryIDPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}
