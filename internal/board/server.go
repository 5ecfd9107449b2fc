package board

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/1ureka/pastecall/internal/util"
)

const (
	writeTimeout   = 5 * time.Second
	clientQueueLen = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TextBuffer is a shared text box the board mirrors.
type TextBuffer interface {
	Name() string
	Get() string
	Set(text string)
	OnChange(fn func(text string))
}

// Server is the WebSocket side of the board.
type Server struct {
	pin      string
	listener net.Listener
	httpSrv  *http.Server
	buffers  map[MessageType]TextBuffer

	mu      sync.Mutex
	clients map[*client]struct{}
	state   string
}

// NewServer creates a board over the given buffers, keyed by buffer name.
// Buffers named other than "sdp" or "ice" are ignored.
func NewServer(pin string, buffers ...TextBuffer) *Server {
	s := &Server{
		pin:     pin,
		buffers: make(map[MessageType]TextBuffer),
		clients: make(map[*client]struct{}),
	}
	for _, b := range buffers {
		typ := MessageType(b.Name())
		if typ != MsgTypeSDP && typ != MsgTypeICE {
			continue
		}
		s.buffers[typ] = b
		b.OnChange(func(text string) {
			s.broadcast(Message{Type: typ, Text: text, ID: util.BlobID(text)})
		})
	}
	return s
}

// Start begins listening on addr (port 0 picks a free one). Returns the
// assigned port number.
func (s *Server) Start(addr string) (int, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to start board server: %w", err)
	}
	s.listener = listener
	port := listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.LogError("board server stopped: %v", err)
		}
	}()

	return port, nil
}

// PublishState broadcasts the coordinator state to every watcher.
func (s *Server) PublishState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.broadcast(Message{Type: MsgTypeState, Text: state})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	pin := r.URL.Query().Get("pin")
	if pin != s.pin {
		http.Error(w, "Invalid PIN", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := newClient(conn)
	util.LogInfo("board client connected from %s", r.RemoteAddr)

	// Snapshot and register under one lock so no change slips between them.
	s.mu.Lock()
	for _, typ := range []MessageType{MsgTypeSDP, MsgTypeICE} {
		if b, ok := s.buffers[typ]; ok {
			text := b.Get()
			c.enqueue(Message{Type: typ, Text: text, ID: util.BlobID(text)})
		}
	}
	if s.state != "" {
		c.enqueue(Message{Type: MsgTypeState, Text: s.state})
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go c.writeLoop()
	s.readLoop(c)

	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
	util.LogInfo("board client %s disconnected", r.RemoteAddr)
}

// readLoop applies pasted text to the matching buffer until the client
// goes away.
func (s *Server) readLoop(c *client) {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		b, ok := s.buffers[msg.Type]
		if !ok {
			util.LogWarning("board: ignoring %q message", msg.Type)
			continue
		}
		util.LogInfo("board: %s buffer pasted remotely (%s)", msg.Type, util.BlobID(msg.Text))
		b.Set(msg.Text)
	}
}

func (s *Server) broadcast(msg Message) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.enqueue(msg)
	}
}

// Close shuts down the listener and disconnects every client.
func (s *Server) Close() error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Close()
	}

	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	for c := range clients {
		c.close()
	}
	return err
}

// GeneratePIN returns a random numeric PIN of the specified length.
func GeneratePIN(length int) string {
	digits := make([]byte, length)
	for i := range digits {
		n, _ := rand.Int(rand.Reader, big.NewInt(10))
		digits[i] = byte('0') + byte(n.Int64())
	}
	return string(digits)
}

// ---------------------------------------------------------------------------
// client
// ---------------------------------------------------------------------------

// client serializes outgoing messages to one WebSocket.
type client struct {
	conn      *websocket.Conn
	queue     chan Message
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:  conn,
		queue: make(chan Message, clientQueueLen),
		done:  make(chan struct{}),
	}
}

// enqueue never blocks: a watcher that cannot keep up loses messages.
func (c *client) enqueue(msg Message) {
	select {
	case <-c.done:
	case c.queue <- msg:
	default:
		util.LogWarning("board: client queue full, dropping %s message", msg.Type)
	}
}

func (c *client) writeLoop() {
	for {
		select {
		case msg := <-c.queue:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
	})
}
