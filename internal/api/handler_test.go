package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet-board-backend/internal/audit"
	"valet-board-backend/internal/auth"
	"valet-board-backend/internal/board"
	"valet-board-backend/internal/live"
	"valet-board-backend/internal/model"
	"valet-board-backend/internal/sales"
	"valet-board-backend/internal/store"
	"valet-board-backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// apiStore is an in-memory Store for handler tests.
type apiStore struct {
	tickets    []model.Ticket
	pickups    []model.SalesPickup
	updateRows int64
	updates    []store.Patch
	subs       []*model.PushSubscription
	notifier   *store.Notifier
}

func newAPIStore() *apiStore {
	return &apiStore{updateRows: 1, notifier: store.NewNotifier()}
}

func (s *apiStore) InsertTicket(_ context.Context, t *model.Ticket) error {
	s.tickets = append([]model.Ticket{*t}, s.tickets...)
	return nil
}

func (s *apiStore) UpdateTicket(_ context.Context, _, _ string, p store.Patch) (int64, error) {
	s.updates = append(s.updates, p)
	return s.updateRows, nil
}

func (s *apiStore) ListTickets(context.Context, string) ([]model.Ticket, error) {
	return s.tickets, nil
}

func (s *apiStore) InsertSalesPickup(_ context.Context, p *model.SalesPickup) error {
	s.pickups = append(s.pickups, *p)
	return nil
}

func (s *apiStore) UpdateSalesPickup(_ context.Context, _, _ string, p store.Patch) (int64, error) {
	s.updates = append(s.updates, p)
	return s.updateRows, nil
}

func (s *apiStore) ListSalesPickups(context.Context, string) ([]model.SalesPickup, error) {
	return s.pickups, nil
}

func (s *apiStore) InsertAuditEvent(context.Context, *model.AuditEvent) error { return nil }

func (s *apiStore) SaveSubscription(_ context.Context, sub *model.PushSubscription) error {
	s.subs = append(s.subs, sub)
	return nil
}
func (s *apiStore) DeleteSubscription(context.Context, string) error { return nil }
func (s *apiStore) ListSubscriptions(context.Context, string) ([]model.PushSubscription, error) {
	return nil, nil
}
func (s *apiStore) Notifier() *store.Notifier { return s.notifier }

func newTestRouter(t *testing.T, fs *apiStore) *gin.Engine {
	t.Helper()
	log := logger.NewNop()

	tickets := live.NewService(store.TableTickets,
		func(ctx context.Context) ([]model.Ticket, error) { return fs.ListTickets(ctx, "store-1") },
		nil, time.Hour, time.Hour, log, nil)
	pickups := live.NewService(store.TableSalesPickups,
		func(ctx context.Context) ([]model.SalesPickup, error) { return fs.ListSalesPickups(ctx, "store-1") },
		nil, time.Hour, time.Hour, log, nil)
	tickets.ReloadOnce(context.Background())
	pickups.ReloadOnce(context.Background())

	recorder := audit.NewRecorder(fs, log)
	resolver := auth.NewStaticResolver(map[string]auth.Identity{
		"disp-token": {UserID: "u1", EffectiveRole: auth.RoleDispatcher, TenantID: "store-1"},
		"wall-token": {UserID: "w1", EffectiveRole: auth.RoleWallboard, TenantID: "store-1"},
	})

	h := NewHandler(HandlerDeps{
		Store:        fs,
		Tickets:      tickets,
		Pickups:      pickups,
		Board:        board.NewDispatcher(fs, recorder, []string{"Alex"}, log),
		Sales:        sales.NewDispatcher(fs, recorder, []string{"Chris"}, log),
		Resolver:     resolver,
		DefaultStore: "store-1",
		CompletedCap: 50,
		Log:          log,
	})
	return NewRouter(h, RouterOptions{RateLimit: 1000, RateBurst: 1000, CacheTTL: time.Millisecond})
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedTicket(fs *apiStore, id string, status model.TicketStatus) {
	fs.tickets = append(fs.tickets, model.Ticket{
		ID: id, StoreID: "store-1", TagNumber: "T-" + id, CustomerName: "Jordan",
		Status: status, WashStatus: model.WashNone, CreatedAt: time.Now().UTC().Add(-5 * time.Minute),
	})
}

func TestGetBoard(t *testing.T) {
	fs := newAPIStore()
	seedTicket(fs, "a", model.StatusNew)
	seedTicket(fs, "b", model.StatusWaitingForCustomer)
	router := newTestRouter(t, fs)

	w := doJSON(router, http.MethodGet, "/api/board", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Board live.BoardView `json:"board"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Board.Active, 1)
	assert.Len(t, resp.Board.Waiting, 1)
	assert.NotEmpty(t, resp.Board.Active[0].MasterDisplay)
}

func TestPostTicket(t *testing.T) {
	fs := newAPIStore()
	router := newTestRouter(t, fs)

	w := doJSON(router, http.MethodPost, "/api/tickets", "disp-token",
		gin.H{"tagNumber": "T-9", "customerName": "Sam", "staged": true})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, fs.tickets, 1)
	assert.Equal(t, model.StatusStaged, fs.tickets[0].Status)

	t.Run("wallboard denied", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/tickets", "wall-token",
			gin.H{"tagNumber": "T-10", "customerName": "Sam"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/tickets", "disp-token", gin.H{"tagNumber": "T-11"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPostTicketAction(t *testing.T) {
	fs := newAPIStore()
	seedTicket(fs, "a", model.StatusNew)
	router := newTestRouter(t, fs)

	w := doJSON(router, http.MethodPost, "/api/tickets/a/actions", "disp-token", gin.H{"action": "keys-machine"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"applied": true}`, w.Body.String())
	require.Len(t, fs.updates, 1)
	assert.Equal(t, model.StatusKeysInMachine, fs.updates[0]["status"])

	t.Run("unknown action is a no-op", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/tickets/a/actions", "disp-token", gin.H{"action": "levitate"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"applied": false}`, w.Body.String())
	})

	t.Run("missing ticket is 404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/tickets/nope/actions", "disp-token", gin.H{"action": "keys-machine"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unauthenticated is read-only", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/tickets/a/actions", "", gin.H{"action": "keys-machine"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPostTicketAction_ZeroRowsBlocked(t *testing.T) {
	fs := newAPIStore()
	seedTicket(fs, "a", model.StatusNew)
	fs.updateRows = 0
	router := newTestRouter(t, fs)

	w := doJSON(router, http.MethodPost, "/api/tickets/a/actions", "disp-token", gin.H{"action": "keys-machine"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "update blocked (0 rows)")
}

func TestSalesEndpoints(t *testing.T) {
	fs := newAPIStore()
	router := newTestRouter(t, fs)

	w := doJSON(router, http.MethodPost, "/api/sales", "disp-token",
		gin.H{"stockNumber": "S-778", "salespersonName": "Dana"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, fs.pickups, 1)
	id := fs.pickups[0].ID

	t.Run("cancel without reason is a no-op", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/sales/"+id+"/actions", "disp-token", gin.H{"action": "cancel"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"applied": false}`, w.Body.String())
	})

	t.Run("driver on the way", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/sales/"+id+"/actions", "disp-token",
			gin.H{"action": "driver-on-the-way", "driver": "Chris"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"applied": true}`, w.Body.String())
	})

	t.Run("off-roster driver rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/sales/"+id+"/actions", "disp-token",
			gin.H{"action": "driver-on-the-way", "driver": "Stranger"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("queue is readable", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/sales", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSubscriptions(t *testing.T) {
	fs := newAPIStore()
	router := newTestRouter(t, fs)

	w := doJSON(router, http.MethodPut, "/api/subscriptions", "",
		gin.H{"endpoint": "https://push.example/a", "p256dh": "k", "auth": "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, fs.subs, 1)
	assert.Equal(t, "store-1", fs.subs[0].StoreID, "unauthenticated screens subscribe under the default store")

	t.Run("missing body rejected", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/subscriptions", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/subscriptions", "",
			gin.H{"endpoint": "https://push.example/a"})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("vapid key unconfigured", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/vapid_public_key", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
