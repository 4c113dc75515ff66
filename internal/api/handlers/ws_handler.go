package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirex/internal/realtime"
	"github.com/yoockh/hirex/internal/services"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WSHandler streams a job's application events to its owner.
type WSHandler struct {
	apps     services.ApplicationService
	events   realtime.Subscriber
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(apps services.ApplicationService, events realtime.Subscriber, origins []string, l logrus.FieldLogger) *WSHandler {
	if l == nil {
		l = logrus.StandardLogger()
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &WSHandler{
		apps:   apps,
		events: events,
		log:    l,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed["*"]; ok {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(messageType int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(messageType, b)
}

func (h *WSHandler) JobApplications(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	jobID := c.Param("id")

	if err := h.apps.AuthorizeJobFeed(c.Request.Context(), caller, jobID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub, err := h.events.Subscribe(ctx, jobID)
	if err != nil {
		h.log.WithError(err).WithField("job_id", jobID).Warn("realtime subscribe failed")
		_ = wc.write(websocket.TextMessage, []byte(`{"type":"error","code":"UNAVAILABLE","message":"realtime feed unavailable"}`))
		return
	}
	defer sub.Close()

	_ = wc.write(websocket.TextMessage, []byte(`{"type":"subscribed","job_id":"`+jobID+`"}`))

	// reader: only control frames are expected; it ends the stream on close
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	// writer: events -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case payload, open := <-sub.Messages():
			if !open {
				return
			}
			if err := wc.write(websocket.TextMessage, []byte(payload)); err != nil {
				return
			}
		}
	}
}
