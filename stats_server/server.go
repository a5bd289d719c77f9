package stats_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Qitmeer/qitmeer-clbench/common"
	"github.com/Qitmeer/qitmeer-clbench/core"
	"github.com/Qitmeer/qitmeer-clbench/stats_server/websocket"
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// Server exposes the device inventory and the benchmark results collected so
// far. It is a core.ResultSink.
type Server struct {
	hub *websocket.Hub

	mu        sync.Mutex
	inventory *core.Inventory
	results   core.BenchResults
}

// NewServer starts the websocket hub; it stops with ctx.
func NewServer(ctx context.Context, inv *core.Inventory) *Server {
	if inv == nil {
		inv = &core.Inventory{}
	}
	s := &Server{
		hub:       websocket.NewHub(),
		inventory: inv,
		results:   core.BenchResults{},
	}
	go s.hub.Run(ctx)
	return s
}

func resultMessage(r core.BenchResult) []byte {
	w := jwriter.Writer{}
	w.RawString(`{"type":"result","data":`)
	r.MarshalEasyJSON(&w)
	w.RawByte('}')
	b, _ := w.BuildBytes()
	return b
}

func (s *Server) Publish(r core.BenchResult) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
	s.hub.Broadcast(resultMessage(r))
}

func (s *Server) Results() core.BenchResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(core.BenchResults, len(s.results))
	copy(out, s.results)
	return out
}

func writeJSON(w http.ResponseWriter, v easyjson.Marshaler) {
	if _, _, err := easyjson.MarshalToHTTPResponseWriter(v, w); err != nil {
		common.ProbeLoger.Error(err.Error())
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/devices", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		inv := s.inventory
		s.mu.Unlock()
		writeJSON(w, inv)
	})
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.Results())
	})
	mux.HandleFunc("/ws", s.hub.WsPage)
	return mux
}

// Listen binds addr so a bad or busy address fails before any work starts.
func (s *Server) Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("stats server listen %s: %w", addr, err)
	}
	common.ProbeLoger.Infof("stats server start server:%s", ln.Addr())
	return ln, nil
}

// Serve blocks until ctx is done or the listener fails. It returns nil after
// a shutdown triggered by ctx.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := s.Listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
