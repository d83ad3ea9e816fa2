// Package status queries a Minecraft server with the Server List Ping
// handshake (github.com/Tnze/go-mc) and decodes the response into a
// models.Snapshot.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tnze/go-mc/bot"
	"github.com/Tnze/go-mc/chat"
	"github.com/rescale/mcnotify/internal/logging"
	"github.com/rescale/mcnotify/internal/models"
)

// DefaultTimeout bounds one query round-trip.
const DefaultTimeout = 10 * time.Second

// PingFunc performs one status round-trip and returns the raw JSON response.
type PingFunc func(ctx context.Context, addr string) ([]byte, time.Duration, error)

// Options configures a Client.
type Options struct {
	Timeout time.Duration
	Logger  *logging.Logger

	// Ping replaces the network round-trip (tests).
	Ping PingFunc
}

// Client performs status queries. Each call opens its own connection, so one
// Client may be used from several goroutines.
type Client struct {
	timeout time.Duration
	logger  *logging.Logger
	ping    PingFunc
}

// NewClient creates a status client.
func NewClient(opts Options) *Client {
	c := &Client{
		timeout: opts.Timeout,
		logger:  opts.Logger,
		ping:    opts.Ping,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if c.ping == nil {
		c.ping = bot.PingAndListContext
	}
	return c
}

// Query performs one status round-trip against target. Failures are returned
// as *QueryError and are never retried here.
func (c *Client) Query(ctx context.Context, target models.ServerTarget) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, latency, err := c.ping(ctx, target.Address())
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return nil, &QueryError{Kind: classify(err), Target: target, Err: err}
	}

	snap, err := Decode(raw)
	if err != nil {
		return nil, &QueryError{Kind: ErrProtocol, Target: target, Err: err}
	}

	c.logger.Debug().
		Str("server", target.String()).
		Int("online", snap.OnlineCount).
		Int("max", snap.MaxCount).
		Bool("sample", snap.HasSample()).
		Dur("latency", latency).
		Dur("elapsed", time.Since(start)).
		Msg("Status query complete")
	return snap, nil
}

// response mirrors the status JSON document. Sample is a pointer so an absent
// list can be told apart from an empty one.
type response struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players *struct {
		Max    int `json:"max"`
		Online int `json:"online"`
		Sample *[]struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"sample"`
	} `json:"players"`
	Description chat.Message `json:"description"`
	Favicon     string       `json:"favicon"`
}

// Decode parses a raw status response.
func Decode(raw []byte) (*models.Snapshot, error) {
	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("invalid status response: %w", err)
	}
	if resp.Players == nil {
		return nil, fmt.Errorf("status response has no players section")
	}
	if resp.Players.Online < 0 || resp.Players.Max < 0 {
		return nil, fmt.Errorf("status response has negative player counts (%d/%d)",
			resp.Players.Online, resp.Players.Max)
	}

	snap := &models.Snapshot{
		OnlineCount: resp.Players.Online,
		MaxCount:    resp.Players.Max,
		Version:     resp.Version.Name,
		Protocol:    resp.Version.Protocol,
		Description: resp.Description.ClearString(),
		Favicon:     resp.Favicon,
	}
	if resp.Players.Sample != nil {
		snap.Sample = make([]models.PlayerRef, 0, len(*resp.Players.Sample))
		for _, p := range *resp.Players.Sample {
			snap.Sample = append(snap.Sample, models.PlayerRef{ID: p.ID, Name: p.Name})
		}
	}
	return snap, nil
}
