package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/frame"
)

// Topology describes the strip to preview clients.
type Topology struct {
	Pin    string `json:"pin"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mode   string `json:"mode"`
	Layout string `json:"layout"`
	Driver string `json:"driver"`
}

// Hub is a led.Driver that mirrors every transmitted frame to browser
// clients over websockets, in strip order as plain RGB.
type Hub struct {
	mu        sync.Mutex
	topo      Topology
	mode      frame.Mode
	limitAmps float64

	frameID     uint64
	amps        float64
	overBudget  bool
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
}

func NewHub(mode frame.Mode, topo Topology) *Hub {
	topo.Mode = mode.String()
	return &Hub{
		topo:        topo,
		mode:        mode,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
}

// SetLimitAmps sets the supply budget; 0 disables the check.
func (h *Hub) SetLimitAmps(a float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.limitAmps = a
}

func (h *Hub) Write(buf []byte) error {
	rgb := frame.Decode(h.mode, buf)
	amps := estimateCurrent(buf)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.frameID++
	h.amps = amps
	h.broadcastFrame(rgb)

	over := h.limitAmps > 0 && amps > h.limitAmps
	if over && !h.overBudget {
		h.pushDiag(diag.Diagnostic{
			Severity:       diag.Warn,
			Code:           "POWER.OVER_BUDGET",
			Summary:        "Frame exceeds the supply budget",
			LikelyCauses:   []string{"brightness too high for the supply", "large white fill"},
			SuggestedFixes: []string{"lower brightness", "raise power.limit_amps if the supply allows"},
			Evidence:       map[string]any{"amps": amps, "limit_amps": h.limitAmps, "frame_id": h.frameID},
		})
	}
	h.overBudget = over
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
	for c := range h.diagClients {
		c.Close()
		delete(h.diagClients, c)
	}
	return nil
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.clients, true)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.diagClients, false)
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, set map[*websocket.Conn]bool, topology bool) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	set[conn] = true
	if topology {
		h.sendTopology(conn)
	}
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"count":    h.topo.Width * h.topo.Height,
		"amps":     h.amps,
		"clients":  len(h.clients),
		"topology": h.topo,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// caller holds h.mu
func (h *Hub) sendTopology(conn *websocket.Conn) {
	b, _ := json.Marshal(struct {
		Type string `json:"type"`
		Topology
	}{"topology", h.topo})
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Debug().Err(err).Msg("write topology")
	}
}

// caller holds h.mu
func (h *Hub) broadcastFrame(rgb []byte) {
	type frameMsg struct {
		Type    string `json:"type"`
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frameMsg{Type: "frame", T: time.Now().UnixNano(), FrameID: h.frameID, RGB: rgb})
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// caller holds h.mu
func (h *Hub) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	for c := range h.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

// estimateCurrent returns estimated amps for a wire frame (20mA/chan full-scale)
func estimateCurrent(wire []byte) float64 {
	var sum float64
	for _, v := range wire {
		sum += float64(v)
	}
	return sum / 255.0 * 0.020
}
