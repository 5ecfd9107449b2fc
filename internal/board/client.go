package board

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// Connect dials the board URL and returns the connection. The URL should
// include the PIN as a query parameter, e.g.:
//
//	ws://127.0.0.1:7420/ws?pin=1234
func Connect(ctx context.Context, url string) (*websocket.Conn, error) {
	dialer := websocket.DefaultDialer
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to board: %w", err)
	}
	return conn, nil
}

// Watch calls fn for every message the board sends until ctx is done or
// the connection drops.
func Watch(ctx context.Context, url string, fn func(Message)) error {
	conn, err := Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("board read failed: %w", err)
		}
		fn(msg)
	}
}

// Push pastes text into a buffer on a remote board.
func Push(ctx context.Context, url string, typ MessageType, text string) error {
	conn, err := Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteJSON(Message{Type: typ, Text: text}); err != nil {
		return fmt.Errorf("board write failed: %w", err)
	}
	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
