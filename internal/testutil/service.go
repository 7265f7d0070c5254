package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Script drives one connection to a SearchService.
type Script struct {
	// Events are sent in order after the request has been read.
	Events []string
	// Hold keeps the connection open after the events until the client
	// leaves. Otherwise the service closes it normally.
	Hold bool
}

// SearchService is a websocket stand-in for the search service. Every
// connection reads one request, publishes it on Requests and plays Script.
type SearchService struct {
	URL      string
	Requests chan string
}

// NewSearchService starts a service that plays script for every connection.
// It is shut down when the test ends.
func NewSearchService(t *testing.T, script Script) *SearchService {
	t.Helper()
	svc := &SearchService{Requests: make(chan string, 16)}
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case svc.Requests <- string(data):
		default:
		}

		for _, e := range script.Events {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(e)); err != nil {
				return
			}
		}
		if !script.Hold {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "search complete")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		}
		// Drain until the client answers the close or hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	svc.URL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return svc
}

// NextRequest waits for the next request the service received.
func (s *SearchService) NextRequest(t *testing.T) string {
	t.Helper()
	select {
	case r := <-s.Requests:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a search request")
		return ""
	}
}
