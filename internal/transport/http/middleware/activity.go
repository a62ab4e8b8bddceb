package httpmw

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ActivityToucher marks a room as recently used.
type ActivityToucher interface {
	TouchActivity(ctx context.Context, roomID string)
}

// ActivityMiddleware bumps the room's last-activity marker whenever a
// room-scoped request comes in, so a room that is still being polled never
// looks idle to the janitor. Best-effort and silent on unknown rooms.
func ActivityMiddleware(roomSvc ActivityToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if roomID := chi.URLParam(r, "id"); roomID != "" {
				roomSvc.TouchActivity(r.Context(), roomID)
			}
			next.ServeHTTP(w, r)
		})
	}
}
