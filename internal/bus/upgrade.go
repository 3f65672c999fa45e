package bus

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Upgrader is shared across the package; origin checking is delegated to
// the HTTP layer's CORS policy rather than duplicated here.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}
