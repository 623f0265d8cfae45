package httptransport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/corray333/atlas-cafe/internal/dal/genai"
	"github.com/corray333/atlas-cafe/internal/dal/repositories/match/memory"
	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/media"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/corray333/atlas-cafe/internal/service/services/ordersvc"
	"github.com/corray333/atlas-cafe/internal/transport/http/session"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMedia struct {
	err error
}

func (f *fakeMedia) GenerateImage(context.Context, string, media.ImageSize) (string, error) {
	return "data:image/png;base64,aW1n", f.err
}

func (f *fakeMedia) EditImage(context.Context, string, string) (string, error) {
	return "data:image/png;base64,ZWRpdA==", f.err
}

func (f *fakeMedia) GenerateVideo(context.Context, string, string, media.AspectRatio) (media.Video, error) {
	return media.Video{Data: []byte("mp4"), MIMEType: "video/mp4"}, f.err
}

func (f *fakeMedia) GenerateMenuPhoto(context.Context, string, string) (string, error) {
	return "data:image/png;base64,cGhvdG8=", f.err
}

type testEnv struct {
	srv    *httptest.Server
	orders *ordersvc.OrderService
}

func newTestEnv(t *testing.T, mediaSvc *fakeMedia) *testEnv {
	t.Helper()

	viper.Set("server.http.session_cookie", "session_id")
	orderSvc := ordersvc.MustNewOrderService(ordersvc.WithMatchRepository(memory.NewMatchRepository()))
	transport := NewHTTPTransport(orderSvc, mediaSvc)
	transport.RegisterRoutes()

	srv := httptest.NewServer(transport.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, orders: orderSvc}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decode[session.Response](t, resp).ID
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})

	resp := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOrderingFlow(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})
	id := env.createSession(t)
	base := "/api/sessions/" + id

	resp := env.do(t, http.MethodPut, base+"/table", `{"tableId":"7"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, base+"/cart/items", `{"menuItemId":"3"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env.do(t, http.MethodPost, base+"/cart/items", `{"menuItemId":"3"}`)
	env.do(t, http.MethodPost, base+"/cart/items", `{"menuItemId":"1"}`)

	resp = env.do(t, http.MethodPatch, base+"/cart/items/1", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decode[struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		Total decimal.Decimal `json:"total"`
	}](t, resp)
	require.Len(t, cart.Items, 2)
	assert.True(t, decimal.NewFromInt(175).Equal(cart.Total), "got %s", cart.Total)

	resp = env.do(t, http.MethodPost, base+"/orders", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decode[order.Order](t, resp)
	assert.Equal(t, "7", placed.TableID)
	assert.Equal(t, order.StatusNew, placed.Status)
	assert.True(t, decimal.NewFromInt(175).Equal(placed.Total))

	resp = env.do(t, http.MethodGet, base+"/cart", "")
	emptyCart := decode[struct {
		Items []any `json:"items"`
	}](t, resp)
	assert.Empty(t, emptyCart.Items)

	resp = env.do(t, http.MethodGet, "/api/board", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	board := decode[[]order.Order](t, resp)
	require.Len(t, board, 1)
	assert.Equal(t, placed.ID, board[0].ID)

	resp = env.do(t, http.MethodDelete, base+"/orders/"+placed.ID, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, base+"/orders/"+placed.ID+"?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, base+"/orders", "")
	assert.Empty(t, decode[[]order.Order](t, resp))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})
	id := env.createSession(t)

	resp := env.do(t, http.MethodPost, "/api/sessions/"+id+"/orders", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateQuantityRejectsBelowOne(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})
	id := env.createSession(t)
	base := "/api/sessions/" + id
	env.do(t, http.MethodPost, base+"/cart/items", `{"menuItemId":"1"}`)

	resp := env.do(t, http.MethodPatch, base+"/cart/items/1", `{"quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	sess, err := env.orders.Session(id)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.State.Cart()[0].Quantity)
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/sessions/nope", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/sessions/nope", "").StatusCode)
}

func TestCloseSession(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})
	id := env.createSession(t)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/sessions/"+id, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/sessions/"+id, "").StatusCode)
}

func TestMenu(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})
	base := "/api/sessions/" + env.createSession(t)

	resp := env.do(t, http.MethodGet, base+"/menu?category=coffee", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	menu := decode[struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Categories []struct {
			ID string `json:"id"`
		} `json:"categories"`
	}](t, resp)
	assert.Len(t, menu.Items, 2)
	assert.Len(t, menu.Categories, 5)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, base+"/menu?category=tapas", "").StatusCode)

	resp = env.do(t, http.MethodPost, base+"/menu",
		`{"name":"Harira","price":"30","category":"food","image":"data:image/png;base64,aGFyaXJh"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decode[struct {
		ID string `json:"id"`
	}](t, resp)
	assert.NotEmpty(t, added.ID)

	resp = env.do(t, http.MethodPost, base+"/menu", `{"name":"Msemen","price":"12","image":"/images/msemen.jpg"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "food", decode[map[string]any](t, resp)["category"])

	resp = env.do(t, http.MethodPost, base+"/menu", `{"id":"1","name":"Shadow","price":"1","category":"food","image":"x.jpg"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	for name, body := range map[string]string{
		"missing image":    `{"name":"Harira","price":"30","category":"food"}`,
		"missing name":     `{"price":"30","image":"x.jpg"}`,
		"missing price":    `{"name":"Harira","image":"x.jpg"}`,
		"zero price":       `{"name":"Harira","price":"0","image":"x.jpg"}`,
		"negative price":   `{"name":"Bad","price":"-1","category":"food","image":"x.jpg"}`,
		"unknown category": `{"name":"Bad","price":"1","category":"tapas","image":"x.jpg"}`,
	} {
		resp = env.do(t, http.MethodPost, base+"/menu", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, name)
	}

	resp = env.do(t, http.MethodPost, base+"/menu", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, base+"/menu/photo", `{"name":"Harira","description":"soup"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "data:image/png;base64,cGhvdG8=", decode[map[string]string](t, resp)["image"])
}

func TestOpenTableSetsCookieAndReusesSession(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})

	resp := env.do(t, http.MethodGet, "/table/12", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[session.Response](t, resp)
	assert.Equal(t, "12", first.State.TableID)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, first.ID, cookie.Value)

	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/table/14/extra", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	second := decode[session.Response](t, resp)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "14", second.State.TableID)
}

func TestMatches(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})
	env.orders.PublishMatches(context.Background(), []match.Match{
		{ID: "m2", Status: match.StatusFinished},
		{ID: "m3", Status: match.StatusUpcoming},
	})

	resp := env.do(t, http.MethodGet, "/api/matches", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Matches  []match.Match `json:"matches"`
		Featured *match.Match  `json:"featured"`
		Banner   *match.Match  `json:"banner"`
	}](t, resp)
	require.Len(t, body.Matches, 2)
	require.NotNil(t, body.Featured)
	assert.Equal(t, "m2", body.Featured.ID)
	require.NotNil(t, body.Banner)
	assert.Equal(t, "m3", body.Banner.ID)
}

func TestBoardQueryValidation(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/board?status=new&tableId=3&limit=5", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/board?status=served", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/board?limit=-1", "").StatusCode)
}

func TestMediaEndpoints(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})

	resp := env.do(t, http.MethodPost, "/api/media/images", `{"prompt":"Lions","size":"2K"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "data:image/png;base64,aW1n", decode[map[string]string](t, resp)["image"])

	resp = env.do(t, http.MethodPost, "/api/media/images", `{"prompt":"Lions","size":"8K"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/media/images/edit", `{"image":"AAAA"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/media/videos", `{"image":"AAAA","aspectRatio":"9:16"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "mp4", string(data))

	resp = env.do(t, http.MethodPost, "/api/media/videos", `{"image":"AAAA","aspectRatio":"4:3"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMediaErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "credentials",
			err:    &genai.GenerationError{Op: "generate image", Reason: "denied", Err: genai.ErrCredentials},
			status: http.StatusUnauthorized,
			code:   "credentials",
		},
		{
			name:   "timeout",
			err:    fmt.Errorf("generate video: %w", genai.ErrTimeout),
			status: http.StatusGatewayTimeout,
			code:   "timeout",
		},
		{
			name:   "generation",
			err:    &genai.GenerationError{Op: "generate image", Reason: "no image returned"},
			status: http.StatusBadGateway,
			code:   "generation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeMedia{err: tt.err})

			resp := env.do(t, http.MethodPost, "/api/media/images", `{"prompt":"Lions"}`)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[map[string]string](t, resp)["code"])
		})
	}
}

func TestEventsStream(t *testing.T) {
	env := newTestEnv(t, &fakeMedia{})
	id := env.createSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, env.srv.URL+"/api/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readVersion := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if v, ok := strings.CutPrefix(line, "id: "); ok {
				return strings.TrimSpace(v)
			}
		}
	}

	assert.Equal(t, "0", readVersion())

	sess, err := env.orders.Session(id)
	require.NoError(t, err)
	sess.State.SetTableID("5")

	assert.Equal(t, "1", readVersion())
}

func TestShutdownEndsEventStreams(t *testing.T) {
	viper.Set("server.http.session_cookie", "session_id")
	orderSvc := ordersvc.MustNewOrderService(ordersvc.WithMatchRepository(memory.NewMatchRepository()))
	transport := NewHTTPTransport(orderSvc, &fakeMedia{})
	transport.RegisterRoutes()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- transport.Serve(listener) }()

	sess, err := orderSvc.CreateSession(context.Background())
	require.NoError(t, err)
	resp, err := http.Get("http://" + listener.Addr().String() + "/api/sessions/" + sess.ID + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "id: "), line)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, transport.Shutdown(ctx))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, <-served, http.ErrServerClosed)
}
