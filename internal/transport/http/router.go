package http

import (
	"net/http"
	"time"

	"github.com/cwrk-planet/relay-service/internal/service"
	httpmw "github.com/cwrk-planet/relay-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/relay-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, roomSvc *service.RoomService, wsServer *ws.Server, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// WS endpoint: joins the relay room named in the query.
	r.Get("/ws", wsServer.HandleWS)

	r.Route("/api", func(pr chi.Router) {
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Post("/room", h.CreateRoom)

		pr.Route("/room/{id}", func(rr chi.Router) {
			rr.Use(httpmw.ActivityMiddleware(roomSvc))

			rr.Post("/join", h.JoinRoom)
			rr.Post("/signal", h.PostSignal)
			rr.Get("/signal", h.PollSignals)
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
