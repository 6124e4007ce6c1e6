package viewpub

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// PublisherConfig configures the socket.io connection to a preview server.
type PublisherConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Publisher emits every rendered view as a render_view event.
type Publisher struct {
	io     *socket.Socket
	logger *slog.Logger
}

// Dial connects to the preview server and waits for the connection.
func Dial(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "viewpub", "url", cfg.URL)
	logger.Info("Connecting to preview server...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to preview server", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		select {
		case connectChan <- connectError(errs...):
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Publisher{io: io, logger: logger}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Render implements Sink.
func (p *Publisher) Render(viewID string, view chart.View) {
	payload, err := Payload(viewID, view)
	if err != nil {
		p.logger.Error("Failed to encode view", "view", viewID, "error", err)
		return
	}
	p.logger.Debug("Publishing view", "view", viewID, "rows", len(view.Data))
	p.io.Emit(EventRenderView, payload)
}

// Close disconnects from the preview server.
func (p *Publisher) Close() {
	p.logger.Info("Disconnecting from preview server", "sid", p.io.Id())
	p.io.Disconnect()
}

// Payload converts a view into plain JSON values so any socket.io encoder
// sends it unchanged.
func Payload(viewID string, view chart.View) (map[string]any, error) {
	raw, err := json.Marshal(NewMessage(viewID, view))
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// connectError turns the arguments of a connect_error event into an error.
func connectError(errs ...any) error {
	if len(errs) == 0 {
		return errors.New("connect_error without a reason")
	}
	if err, ok := errs[0].(error); ok && err != nil {
		return err
	}
	return fmt.Errorf("%v", errs[0])
}
