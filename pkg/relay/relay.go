// Package relay forwards alert events to a remote collector over WebSocket.
package relay

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stressless/facewatch/internal/log"
	"github.com/stressless/facewatch/pkg/protocol"
	"github.com/stressless/facewatch/pkg/tension"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// Client pushes alerts to an upstream collector. The connection is dialed
// lazily and re-dialed after a write failure, so a flaky collector never
// blocks the pipeline for long.
type Client struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn
}

// New creates a relay client for the given ws:// or wss:// URL.
// No connection is made until the first alert.
func New(url string) *Client {
	return &Client{url: url}
}

// Alert forwards one alert event. Implements the sink interface.
func (c *Client) Alert(ev tension.AlertEvent) error {
	msg, err := protocol.NewAlertMessage(ev)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	data, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.dial(); err != nil {
			return err
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		// Drop the connection; the next alert re-dials.
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("relay write: %w", err)
	}
	return nil
}

// dial connects to the collector. Caller holds the mutex.
func (c *Client) dial() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: dialTimeout,
	}

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("relay connect: %w", err)
	}

	c.conn = conn
	log.Info("relay connected", "url", c.url)
	return nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
	c.conn.Close()
	c.conn = nil
	return err
}
