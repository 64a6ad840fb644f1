package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
	"github.com/jimyag/tagforge/pkg/ginx"
	"github.com/rs/zerolog"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// 与 CORS 配置一致，允许所有来源
		return true
	},
}

// Watch 通过 WebSocket 推送提交进度，提交结束后关闭连接
func (s *Submission) Watch(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx.Request.Context())
	workspace := ctx.Param("ws")
	id := ctx.Param("id")

	logger.Info().
		Str("workspace", workspace).
		Str("submission_id", id).
		Msg("Progress WebSocket connection request")

	if s.progress == nil {
		ginx.Adapt1(func(*gin.Context) error {
			return apierror.WithMessage(apierror.ErrInternalError, "progress streaming is not enabled")
		})(ctx)
		return
	}

	// 先订阅再读取当前状态，避免漏掉两者之间的更新
	updates, cancel := s.progress.Subscribe(workspace, id)
	defer cancel()

	current, err := s.submissionService.GetSubmission(ctx, workspace, id)
	if err != nil {
		ginx.Adapt1(func(*gin.Context) error { return err })(ctx)
		return
	}

	wsConn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upgrade WebSocket")
		return
	}
	defer wsConn.Close()

	streamCtx, stop := context.WithCancel(ctx.Request.Context())
	defer stop()
	go discardReads(wsConn, stop)

	if err := streamProgress(streamCtx, wsConn, current, updates); err != nil {
		logger.Debug().Err(err).Str("submission_id", id).Msg("Progress stream ended")
		return
	}
	logger.Info().Str("submission_id", id).Msg("Progress stream completed")
}

// streamProgress 先发送当前状态，然后转发更新直到提交结束
func streamProgress(ctx context.Context, conn *websocket.Conn, current *entity.Submission, updates <-chan entity.Submission) error {
	current.Payload = nil
	if err := writeJSON(conn, current); err != nil {
		return err
	}
	if current.Status.Finished() {
		return closeNormal(conn)
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return err
			}
		case sub, ok := <-updates:
			if !ok {
				return closeNormal(conn)
			}
			if err := writeJSON(conn, &sub); err != nil {
				return err
			}
			if sub.Status.Finished() {
				return closeNormal(conn)
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func closeNormal(conn *websocket.Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "finished")
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
}

// discardReads 读取并丢弃客户端消息，连接断开时调用 stop
func discardReads(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
