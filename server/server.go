// Package server streams the generated point field and scene description to
// browser clients over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"spaceinvaders/config"
	"spaceinvaders/core"
	"spaceinvaders/gpu"
	"spaceinvaders/logging"
	"spaceinvaders/pointcloud"
)

const writeWait = 10 * time.Second

// SceneMessage is sent once when a client connects and after settings reloads
type SceneMessage struct {
	Type  string     `json:"type"`
	Scene core.Scene `json:"scene"`
}

// FieldHeader precedes every binary point field frame
type FieldHeader struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Seed       int64   `json:"seed"`
	Generation int     `json:"generation"`
	PointSize  float64 `json:"pointSize"`
	Bytes      int     `json:"bytes"`
}

// ClientMessage is what browsers send back
type ClientMessage struct {
	Type string `json:"type"`
	Seed int64  `json:"seed"`
}

// ErrorMessage reports a failed request to the client that made it
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// snapshot is one immutable generated field with its encodings
type snapshot struct {
	field  *core.PointField
	header FieldHeader
	frame  []byte
}

// Hub owns the current field and the connected clients
type Hub struct {
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu         sync.RWMutex
	settings   config.Settings
	version    uint64
	scene      core.Scene
	current    snapshot
	generation int

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
	handlers  sync.WaitGroup
}

// NewHub validates the settings and generates the first field
func NewHub(settings config.Settings, logger logging.Logger) (*Hub, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	h := &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		settings: settings,
		scene:    settings.BuildScene(),
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
	if err := h.Generate(settings.Seed()); err != nil {
		return nil, err
	}
	return h, nil
}

// Generate replaces the current field with one generated from seed. On error
// the previous field stays in place.
func (h *Hub) Generate(seed int64) error {
	h.mu.RLock()
	settings, version := h.settings, h.version
	h.mu.RUnlock()
	return h.generate(settings, version, seed)
}

// generate builds a field from settings and swaps it in, unless Apply
// replaced the settings after version was read
func (h *Hub) generate(settings config.Settings, version uint64, seed int64) error {
	cfg, err := settings.PointFieldConfig()
	if err != nil {
		return err
	}

	start := time.Now()
	field, err := core.GeneratePointField(cfg, core.NewSeededSource(seed))
	if err != nil {
		return errors.Wrap(err, "failed to generate point field")
	}
	frame, err := gpu.NewPointBuffers(field).MarshalBinary()
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.version != version {
		h.mu.Unlock()
		h.logger.Debugw("Dropped field generated from replaced settings", "seed", seed)
		return nil
	}
	h.generation++
	generation := h.generation
	h.current = snapshot{
		field: field,
		frame: frame,
		header: FieldHeader{
			Type:       "point_field",
			Count:      field.Count(),
			Seed:       seed,
			Generation: generation,
			PointSize:  settings.Galaxy.PointSize,
			Bytes:      len(frame),
		},
	}
	h.mu.Unlock()

	h.logger.Infow("Generated point field",
		"count", field.Count(),
		"seed", seed,
		"generation", generation,
		"took", time.Since(start))
	return nil
}

// Apply switches to new settings, regenerates and pushes everything to the
// connected clients
func (h *Hub) Apply(settings config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	h.settings = settings
	h.version++
	version := h.version
	h.scene = settings.BuildScene()
	h.mu.Unlock()

	if err := h.generate(settings, version, settings.Seed()); err != nil {
		return err
	}
	h.broadcast(true)
	return nil
}

func (h *Hub) snapshot() (snapshot, core.Scene) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current, h.scene
}

// Field returns the current field. Callers must not modify it.
func (h *Hub) Field() *core.PointField {
	snap, _ := h.snapshot()
	return snap.field
}

// Header returns the header of the current field
func (h *Hub) Header() FieldHeader {
	snap, _ := h.snapshot()
	return snap.header
}

// Handler returns the HTTP routes of the hub
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/scene", h.serveScene)
	mux.HandleFunc("/field.pcd", h.servePCD)

	h.mu.RLock()
	staticDir := h.settings.Server.StaticDir
	h.mu.RUnlock()
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func (h *Hub) serveScene(w http.ResponseWriter, r *http.Request) {
	_, scene := h.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(scene); err != nil {
		h.logger.Warnw("Failed to write scene", "error", err)
	}
}

func (h *Hub) servePCD(w http.ResponseWriter, r *http.Request) {
	snap, _ := h.snapshot()
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="field.pcd"`)
	if err := pointcloud.WritePCD(snap.field, w, pointcloud.PCDBinary); err != nil {
		h.logger.Warnw("Failed to write PCD", "error", err)
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.handlers.Add(1)
	defer h.handlers.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("WebSocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	h.clientsMu.Lock()
	h.clients[conn] = connMutex
	h.clientsMu.Unlock()
	defer h.removeClient(conn)

	h.logger.Infow("Client connected", "remote", conn.RemoteAddr().String())

	snap, scene := h.snapshot()
	if err := h.send(conn, connMutex, &scene, snap); err != nil {
		h.logger.Warnw("Failed to send initial field", "error", err)
		return
	}

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debugw("WebSocket read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case "regenerate":
			seed := msg.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			if err := h.Generate(seed); err != nil {
				h.sendError(conn, connMutex, err)
				continue
			}
			h.broadcast(false)
		default:
			h.sendError(conn, connMutex, errors.Errorf("unknown message type %q", msg.Type))
		}
	}
}

// send writes the optional scene, the field header and the binary frame
func (h *Hub) send(conn *websocket.Conn, mutex *sync.Mutex, scene *core.Scene, snap snapshot) error {
	mutex.Lock()
	defer mutex.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if scene != nil {
		if err := conn.WriteJSON(SceneMessage{Type: "scene", Scene: *scene}); err != nil {
			return err
		}
	}
	if err := conn.WriteJSON(snap.header); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, snap.frame)
}

func (h *Hub) sendError(conn *websocket.Conn, mutex *sync.Mutex, err error) {
	h.logger.Warnw("Request failed", "error", err)
	mutex.Lock()
	defer mutex.Unlock()
	if werr := conn.SetWriteDeadline(time.Now().Add(writeWait)); werr != nil {
		h.logger.Debugw("WebSocket write error", "error", werr)
		return
	}
	if werr := conn.WriteJSON(ErrorMessage{Type: "error", Message: err.Error()}); werr != nil {
		h.logger.Debugw("WebSocket write error", "error", werr)
	}
}

func (h *Hub) broadcast(withScene bool) {
	snap, scene := h.snapshot()
	var scenePtr *core.Scene
	if withScene {
		scenePtr = &scene
	}

	h.clientsMu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for conn, mutex := range h.clients {
		conns[conn] = mutex
	}
	h.clientsMu.RUnlock()

	for conn, mutex := range conns {
		if err := h.send(conn, mutex, scenePtr, snap); err != nil {
			h.logger.Warnw("WebSocket write error", "error", err)
			conn.Close()
			h.removeClient(conn)
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	delete(h.clients, conn)
	h.clientsMu.Unlock()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and waits for their handlers to return
func (h *Hub) Close() {
	h.clientsMu.Lock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.clientsMu.Unlock()
	h.handlers.Wait()
}

// Run serves the hub on addr until ctx is done
func Run(ctx context.Context, addr string, hub *Hub, logger logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infow("Server starting", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	hub.Close()
	if err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
