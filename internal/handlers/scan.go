package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/reginaldodesouza61/listas-compras/internal/scanner"
	"github.com/reginaldodesouza61/listas-compras/internal/service"
	"github.com/reginaldodesouza61/listas-compras/pkg/api"
)

// helloWait bounds how long a scan client has to report its cameras.
const helloWait = 10 * time.Second

type scanDevice struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	RearFacing bool   `json:"rearFacing"`
}

// scanClientMessage is a text message from a scan client:
//
//	{"type":"hello","devices":[...]}   cameras available to the client
//	{"type":"started"}                 the requested camera is running
//	{"type":"error","kind":"...","message":"..."}
//	{"type":"cancel"}
//
// Frames are sent as binary JPEG or PNG messages.
type scanClientMessage struct {
	Type    string       `json:"type"`
	Devices []scanDevice `json:"devices,omitempty"`
	Kind    string       `json:"kind,omitempty"`
	Message string       `json:"message,omitempty"`
}

type scanServerMessage struct {
	Type     string       `json:"type"`
	DeviceID string       `json:"deviceId,omitempty"`
	State    string       `json:"state,omitempty"`
	Barcode  string       `json:"barcode,omitempty"`
	Found    bool         `json:"found,omitempty"`
	Product  *api.Product `json:"product,omitempty"`
	Kind     string       `json:"kind,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// ScanSession runs one barcode scan against the client's camera. The server
// asks the client to start a device, decodes the frames it streams back and
// answers with a single result, cancelled or error message.
func (h *Handler) ScanSession(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	ws := newWSConn(conn)
	defer ws.close()

	devices, err := readHello(conn)
	if err != nil {
		slog.Debug("Scan client sent no hello", "error", err)
		ws.writeError("Expected hello message")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	camera := scanner.NewRemoteCamera(devices,
		func(deviceID string) error {
			return ws.writeJSON(scanServerMessage{Type: "start", DeviceID: deviceID})
		},
		func() {
			if err := ws.writeJSON(scanServerMessage{Type: "stop"}); err != nil {
				slog.Debug("Failed to send stop", "error", err)
			}
		},
	)
	sc := scanner.New(camera, h.decoder,
		scanner.WithTimeout(h.scanTimeout),
		scanner.WithMetrics(h.metrics),
		scanner.WithStateFunc(func(s scanner.State) {
			_ = ws.writeJSON(scanServerMessage{Type: "state", State: s.String()})
		}),
	)
	defer sc.Close()

	go func() {
		defer cancel()
		ws.readLoop(scanner.MaxFrameBytes, func(messageType int, data []byte) bool {
			if messageType == websocket.BinaryMessage {
				img, err := scanner.DecodeFrame(data)
				if err != nil {
					slog.Debug("Dropping unreadable frame", "error", err)
					return true
				}
				camera.PushFrame(img)
				return true
			}

			var msg scanClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				return true
			}
			switch msg.Type {
			case "started":
				camera.Started(nil)
			case "error":
				err := scanner.ClientError(msg.Kind, msg.Message)
				camera.Started(err)
				camera.Fail(err)
			case "cancel":
				return false
			}
			return true
		})
	}()
	go ws.keepAlive(ctx)

	code, err := sc.Scan(ctx)
	if err := ws.writeJSON(h.scanResult(ctx, code, err)); err != nil {
		slog.Debug("Failed to send scan result", "error", err)
	}
}

func (h *Handler) scanResult(ctx context.Context, code string, err error) scanServerMessage {
	if errors.Is(err, scanner.ErrCancelled) {
		return scanServerMessage{Type: "cancelled"}
	}

	var scanErr *scanner.Error
	if errors.As(err, &scanErr) {
		return scanServerMessage{Type: "error", Kind: scanErr.Kind.String(), Message: scanErr.Message()}
	}
	if err != nil {
		slog.Error("Scan failed", "error", err)
		return scanServerMessage{Type: "error", Kind: scanner.KindUnknown.String(), Message: err.Error()}
	}

	result := scanServerMessage{Type: "result", Barcode: code}
	if p, ok := h.products.LookupBarcode(ctx, code); ok {
		result.Found = true
		result.Product = service.ProductMessage(p)
	}
	return result
}

func readHello(conn *websocket.Conn) ([]scanner.Device, error) {
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(helloWait)); err != nil {
		return nil, err
	}

	var msg scanClientMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	if msg.Type != "hello" {
		return nil, errors.New("unexpected message " + msg.Type)
	}

	devices := make([]scanner.Device, 0, len(msg.Devices))
	for _, d := range msg.Devices {
		devices = append(devices, scanner.Device{ID: d.ID, Label: d.Label, RearFacing: d.RearFacing})
	}
	return devices, nil
}
