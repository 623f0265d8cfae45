package httptransport

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/corray333/atlas-cafe/internal/service/models/media"
	"github.com/corray333/atlas-cafe/internal/service/models/order"
	"github.com/corray333/atlas-cafe/internal/service/services/ordersvc"
	"github.com/corray333/atlas-cafe/internal/transport/http/board"
	"github.com/corray333/atlas-cafe/internal/transport/http/cart"
	"github.com/corray333/atlas-cafe/internal/transport/http/events"
	"github.com/corray333/atlas-cafe/internal/transport/http/matches"
	mediahandler "github.com/corray333/atlas-cafe/internal/transport/http/media"
	"github.com/corray333/atlas-cafe/internal/transport/http/menu"
	"github.com/corray333/atlas-cafe/internal/transport/http/orders"
	"github.com/corray333/atlas-cafe/internal/transport/http/session"
	"github.com/corray333/atlas-cafe/internal/transport/http/sessionctx"
	"github.com/corray333/atlas-cafe/internal/transport/http/table"
	"github.com/corray333/atlas-cafe/pkg/http/middleware/trace"
	"github.com/corray333/atlas-cafe/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type service interface {
	CreateSession(ctx context.Context) (*ordersvc.Session, error)
	Session(id string) (*ordersvc.Session, error)
	CloseSession(id string) error
	OpenTable(ctx context.Context, sessionID, tableID string) (*ordersvc.Session, error)
	Board(ctx context.Context, query order.QueryOrdersModel) []order.Order
	LatestMatches(ctx context.Context) ([]match.Match, error)
}

type mediaService interface {
	GenerateImage(ctx context.Context, prompt string, size media.ImageSize) (string, error)
	EditImage(ctx context.Context, image, prompt string) (string, error)
	GenerateVideo(ctx context.Context, image, prompt string, aspectRatio media.AspectRatio) (media.Video, error)
	GenerateMenuPhoto(ctx context.Context, name, description string) (string, error)
}

type HTTPTransport struct {
	server       *http.Server
	router       *chi.Mux
	service      service
	mediaService mediaService
	cookieName   string
}

func NewHTTPTransport(service service, mediaService mediaService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:       server,
		router:       router,
		service:      service,
		mediaService: mediaService,
		cookieName:   viper.GetString("server.http.session_cookie"),
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Serve accepts connections on an existing listener.
func (h *HTTPTransport) Serve(listener net.Listener) error {
	return h.server.Serve(listener)
}

// Shutdown gracefully stops the HTTP server. Request contexts are cancelled first so
// long-lived event streams return instead of holding the shutdown until ctx expires.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", h.health)
	h.router.Get("/table/{tableID}", h.openTable)
	h.router.Get("/table/{tableID}/*", h.openTable)

	h.router.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.createSession)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(sessionctx.Middleware(h.service))

			r.Get("/", session.GetSession)
			r.Delete("/", h.closeSession)
			r.Get("/events", events.Stream)
			r.Put("/table", table.SetTable)

			r.Get("/cart", cart.GetCart)
			r.Post("/cart/items", cart.AddItem)
			r.Patch("/cart/items/{itemID}", cart.UpdateQuantity)
			r.Delete("/cart/items/{itemID}", cart.RemoveItem)

			r.Post("/orders", orders.PlaceOrder)
			r.Get("/orders", orders.ListOrders)
			r.Delete("/orders/{orderID}", orders.CancelOrder)

			r.Get("/menu", menu.ListMenu)
			r.Post("/menu", menu.AddMenuItem)
			r.Post("/menu/photo", h.generateMenuPhoto)
		})

		r.Get("/matches", h.listMatches)
		r.Get("/board", h.listBoard)

		r.Post("/media/images", h.generateImage)
		r.Post("/media/images/edit", h.editImage)
		r.Post("/media/videos", h.generateVideo)
	})
}

func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Error("Error sending health response", "error", err)
	}
}

func (h *HTTPTransport) openTable(w http.ResponseWriter, r *http.Request) {
	table.OpenTable(w, r, h.service, h.cookieName)
}

func (h *HTTPTransport) createSession(w http.ResponseWriter, r *http.Request) {
	session.CreateSession(w, r, h.service)
}

func (h *HTTPTransport) closeSession(w http.ResponseWriter, r *http.Request) {
	session.CloseSession(w, r, h.service)
}

func (h *HTTPTransport) listMatches(w http.ResponseWriter, r *http.Request) {
	matches.ListMatches(w, r, h.service)
}

func (h *HTTPTransport) listBoard(w http.ResponseWriter, r *http.Request) {
	board.ListBoard(w, r, h.service)
}

func (h *HTTPTransport) generateMenuPhoto(w http.ResponseWriter, r *http.Request) {
	menu.GeneratePhoto(w, r, h.mediaService)
}

func (h *HTTPTransport) generateImage(w http.ResponseWriter, r *http.Request) {
	mediahandler.GenerateImage(w, r, h.mediaService)
}

func (h *HTTPTransport) editImage(w http.ResponseWriter, r *http.Request) {
	mediahandler.EditImage(w, r, h.mediaService)
}

func (h *HTTPTransport) generateVideo(w http.ResponseWriter, r *http.Request) {
	mediahandler.GenerateVideo(w, r, h.mediaService)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware(viper.GetString("otel.service_name")))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	server.RegisterOnShutdown(cancel)

	return server
}
