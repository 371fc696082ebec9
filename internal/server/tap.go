package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jroosing/dnslens/internal/database"
	"github.com/jroosing/dnslens/internal/pool"
	"github.com/jroosing/dnslens/internal/wire"
)

// Tap is a passive UDP listener: every datagram received on the socket is
// structurally decoded, counted, and — when malformed — written to the
// audit store. The tap never replies.
type Tap struct {
	Logger         *slog.Logger
	Stats          *DecodeStats
	Store          *database.DB // optional; nil disables the audit trail
	BufferSize     int          // per-datagram receive buffer, bytes
	MaxConcurrency int          // concurrent decode handlers

	conn    *net.UDPConn
	bufPool *pool.BufferPool
	wg      sync.WaitGroup
	sem     chan struct{}
}

// Run starts the tap, listening on the given address.
func (t *Tap) Run(ctx context.Context, addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	return t.RunOnConn(ctx, conn)
}

// RunOnConn runs the tap on an existing UDP connection. Useful for tests
// and when the caller manages the socket.
func (t *Tap) RunOnConn(ctx context.Context, conn *net.UDPConn) error {
	t.conn = conn
	defer conn.Close()

	bufSize := t.BufferSize
	if bufSize <= 0 {
		bufSize = 4096
	}
	t.bufPool = pool.NewBufferPool(bufSize)

	maxConc := t.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 1
	}
	t.sem = make(chan struct{}, maxConc)

	for {
		if ctx.Err() != nil {
			break
		}

		packet, remote, ok := t.receivePacket(ctx, conn)
		if !ok {
			continue
		}

		// Non-blocking acquire: at max concurrency the datagram is
		// dropped, which for a tap just means an uncounted sample.
		select {
		case t.sem <- struct{}{}:
		default:
			continue
		}

		t.wg.Add(1)
		go t.handleDatagram(packet, remote)
	}

	t.wg.Wait()
	return nil
}

// receivePacket reads a UDP datagram using a pooled buffer. The 1s read
// deadline bounds how long shutdown waits on an idle socket.
func (t *Tap) receivePacket(ctx context.Context, conn *net.UDPConn) ([]byte, *net.UDPAddr, bool) {
	bufPtr := t.bufPool.Get()
	buf := *bufPtr
	defer t.bufPool.Put(bufPtr)

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	n, remote, err := conn.ReadFromUDP(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, nil, false
		}
		return nil, nil, false
	}
	if remote == nil {
		return nil, nil, false
	}

	// Copy out of the pooled buffer before it is recycled.
	data := make([]byte, n)
	copy(data, buf[:n])
	return data, remote, true
}

// handleDatagram decodes one datagram and records the outcome.
func (t *Tap) handleDatagram(payload []byte, peer *net.UDPAddr) {
	defer t.wg.Done()
	defer func() { <-t.sem }()

	start := time.Now()
	summary := wire.Decode(payload)
	elapsed := time.Since(start)

	if t.Stats != nil {
		t.Stats.Record(summary.Status, len(payload), elapsed.Nanoseconds())
	}

	if summary.OK() {
		if t.Logger != nil {
			t.Logger.Debug("packet ok", "source", peer.String(), "length", len(payload), "header", summary.Header.String())
		}
		return
	}

	if t.Logger != nil {
		t.Logger.Info("packet rejected",
			"source", peer.String(),
			"length", len(payload),
			"status", summary.Status.String(),
		)
	}
	if t.Store != nil {
		r := database.RejectFromSummary(summary, peer.String(), "udp", len(payload), time.Now().UTC())
		if err := t.Store.InsertReject(r); err != nil && t.Logger != nil {
			t.Logger.Error("failed to record reject", "error", err)
		}
	}
}

// Stop shuts down the tap, waiting up to timeout for in-flight handlers.
func (t *Tap) Stop(timeout time.Duration) error {
	if t.conn == nil {
		return nil
	}
	_ = t.conn.Close()

	if timeout <= 0 {
		t.wg.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("tap: timeout waiting for in-flight handlers")
	}
}
