// Package ws serves terrain builds to rendering clients over a websocket.
// A client sends its desired generation config; the server compares the
// config's fingerprint against the live field, rebuilds on mismatch and
// streams the resulting tiles.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"heightfield.dev/internal/config"
	"heightfield.dev/internal/protocol"
	"heightfield.dev/internal/terrain/encoding"
	"heightfield.dev/internal/terrain/field"
)

// BuildHook observes every successful rebuild (snapshotting, indexing,
// logging). Called while the build lock is held; builds are serialized.
type BuildHook func(f *field.Field, took time.Duration)

type Server struct {
	logger *log.Logger

	mu      sync.Mutex
	cur     *field.Field
	onBuild BuildHook

	upgrader websocket.Upgrader
}

func NewServer(initial *field.Field, logger *log.Logger, onBuild BuildHook) *Server {
	return &Server{
		logger:  logger,
		cur:     initial,
		onBuild: onBuild,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Current returns the live field (may be nil before the first build).
func (s *Server) Current() *field.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Reconcile compares the desired config against the live field and rebuilds
// on fingerprint mismatch. Teardown of the old field happens only after the
// new build succeeded, so a failed build leaves the previous field intact.
// Returns the live field and whether a rebuild happened.
func (s *Server) Reconcile(cfg config.Generation) (*field.Field, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := cfg.Fingerprint()
	if s.cur != nil && s.cur.Fingerprint() == fp {
		return s.cur, false, nil
	}

	start := time.Now()
	f, err := field.Build(cfg)
	if err != nil {
		return s.cur, false, err
	}
	if s.cur != nil {
		s.cur.Teardown()
	}
	s.cur = f
	if s.onBuild != nil {
		s.onBuild(f, time.Since(start))
	}
	return f, true, nil
}

// Frames serializes a field into one BUILD message followed by a TILE
// message per tile, row-major.
func Frames(f *field.Field) ([][]byte, error) {
	cfg := f.Config()
	out := make([][]byte, 0, 1+len(f.Tiles()))

	build, err := json.Marshal(protocol.BuildMsg{
		Type:             protocol.TypeBuild,
		Fingerprint:      f.Fingerprint(),
		GridExtent:       cfg.GridExtent,
		TileSize:         cfg.TileSize,
		SamplesPerTile:   cfg.SamplesPerTile,
		HeightMultiplier: cfg.HeightMultiplier,
		WaterLevel:       cfg.WaterLevel,
		TileCount:        len(f.Tiles()),
	})
	if err != nil {
		return nil, err
	}
	out = append(out, build)

	for _, t := range f.Tiles() {
		b, err := json.Marshal(protocol.TileMsg{
			Type:        protocol.TypeTile,
			Fingerprint: f.Fingerprint(),
			Row:         t.Row,
			Col:         t.Col,
			OffsetX:     t.OffsetX,
			OffsetZ:     t.OffsetZ,
			EdgeSamples: t.EdgeSamples(),
			Heights:     encoding.EncodeHeights(t.Heights()),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out, ok := s.handshake(conn)
		if !ok {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, okCh := <-out:
					if !okCh {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Stream the current field, if any, right after the handshake.
		if cur := s.Current(); cur != nil {
			s.enqueueField(ctx, out, cur)
		}

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				s.enqueueError(ctx, out, protocol.ErrProtoBadRequest, "bad json")
				continue
			}
			if base.Type != protocol.TypeConfig {
				continue
			}
			var cm protocol.ConfigMsg
			if err := json.Unmarshal(msg, &cm); err != nil {
				s.enqueueError(ctx, out, protocol.ErrProtoBadRequest, "bad CONFIG payload")
				continue
			}
			if cm.ProtocolVersion != protocol.Version {
				continue
			}
			if err := cm.Config.Validate(); err != nil {
				s.enqueueError(ctx, out, protocol.ErrBadConfig, err.Error())
				continue
			}

			f, rebuilt, err := s.Reconcile(cm.Config)
			if err != nil {
				s.logger.Printf("rebuild failed: %v", err)
				s.enqueueError(ctx, out, protocol.ErrBuildFailed, err.Error())
				continue
			}
			if rebuilt {
				s.enqueueField(ctx, out, f)
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (out chan []byte, ok bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil, false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil, false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return nil, false
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
	}
	if cur := s.Current(); cur != nil {
		welcome.Fingerprint = cur.Fingerprint()
		welcome.Config = cur.Config()
	}
	if err := writeJSON(conn, welcome); err != nil {
		return nil, false
	}

	return make(chan []byte, 64), true
}

func (s *Server) enqueueField(ctx context.Context, out chan []byte, f *field.Field) {
	frames, err := Frames(f)
	if err != nil {
		s.logger.Printf("encode field: %v", err)
		s.enqueueError(ctx, out, protocol.ErrInternal, "encode failed")
		return
	}
	for _, b := range frames {
		select {
		case <-ctx.Done():
			return
		case out <- b:
		}
	}
}

func (s *Server) enqueueError(ctx context.Context, out chan []byte, code, message string) {
	b, err := json.Marshal(protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: message})
	if err != nil {
		return
	}
	select {
	case <-ctx.Done():
	case out <- b:
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
