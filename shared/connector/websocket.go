package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dracory/tdbdesk/shared/types"
)

var (
	ErrInvalidEndpoint   = errors.New("invalid connection url")
	ErrUnknownConnection = errors.New("unknown connection")
)

// WebsocketConnector dials TDB servers over websocket and keeps every open
// socket keyed by its connection id.
type WebsocketConnector struct {
	dialer *websocket.Dialer
	logger *slog.Logger

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

// NewWebsocketConnector creates a connector whose handshake is bounded by
// timeout. A nil logger uses slog.Default().
func NewWebsocketConnector(timeout time.Duration, logger *slog.Logger) *WebsocketConnector {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebsocketConnector{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: timeout,
		},
		logger: logger,
		conns:  map[string]*websocket.Conn{},
	}
}

// Endpoint builds the websocket url for fields: the configured url with the
// database name and schema as query parameters.
func Endpoint(fields types.FieldSet) (string, error) {
	raw, ok := fields.Get(types.FieldURL)
	if !ok {
		return "", fmt.Errorf("%w: url is required", ErrInvalidEndpoint)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("%w: scheme must be ws or wss", ErrInvalidEndpoint)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: host is required", ErrInvalidEndpoint)
	}

	q := u.Query()
	q.Set("db", fields.Value(types.FieldDBName))
	q.Set("schema", fields.Value(types.FieldSchema))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect performs the websocket handshake and registers the socket under
// connID. The authorization header carries "username:password".
func (c *WebsocketConnector) Connect(ctx context.Context, connID string, fields types.FieldSet) (Result, error) {
	endpoint, err := Endpoint(fields)
	if err != nil {
		return Result{}, err
	}

	header := http.Header{}
	header.Set("Authorization", fields.Value(types.FieldUsername)+":"+fields.Value(types.FieldPassword))

	conn, resp, err := c.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return Result{}, fmt.Errorf("websocket handshake: %w (status %d)", err, resp.StatusCode)
		}
		return Result{}, fmt.Errorf("websocket handshake: %w", err)
	}

	c.mu.Lock()
	prev := c.conns[connID]
	c.conns[connID] = conn
	c.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	go c.watch(connID, conn)

	c.logger.Info("connected",
		slog.String("conn_id", connID),
		slog.String("url", fields.Value(types.FieldURL)),
		slog.String("db", fields.Value(types.FieldDBName)),
	)

	return Result{ConnID: connID, Endpoint: endpoint, Status: resp.StatusCode}, nil
}

// watch reads from conn so control frames are handled, and forgets connID
// once the peer closes or the socket fails. Data frames are discarded.
func (c *WebsocketConnector) watch(connID string, conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			c.mu.Lock()
			current := c.conns[connID] == conn
			if current {
				delete(c.conns, connID)
			}
			c.mu.Unlock()

			if current {
				_ = conn.Close()
				c.logger.Info("connection_closed",
					slog.String("conn_id", connID),
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}
}

// Active reports whether a socket is registered for connID.
func (c *WebsocketConnector) Active(connID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.conns[connID]
	return ok
}

// Disconnect sends a close frame, closes the socket and forgets connID.
func (c *WebsocketConnector) Disconnect(connID string) error {
	c.mu.Lock()
	conn, ok := c.conns[connID]
	delete(c.conns, connID)
	c.mu.Unlock()

	if !ok {
		return ErrUnknownConnection
	}
	return closeConn(conn)
}

// Close disconnects every registered socket.
func (c *WebsocketConnector) Close() error {
	c.mu.Lock()
	conns := c.conns
	c.conns = map[string]*websocket.Conn{}
	c.mu.Unlock()

	var errs []error
	for _, conn := range conns {
		if err := closeConn(conn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeConn(conn *websocket.Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return conn.Close()
}
