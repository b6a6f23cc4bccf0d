package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"treasury-desk/internal/history"
)

func eventsHandler(svc *history.Service, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := 200
		if qs := q.Get("limit"); qs != "" {
			if v, err := strconv.Atoi(qs); err == nil && v > 0 {
				if v > 1000 {
					v = 1000
				}
				limit = v
			}
		}

		stream := history.Stream("")
		if s := strings.TrimSpace(q.Get("stream")); s != "" {
			stream = history.Stream(strings.ToLower(s))
		}

		events, err := svc.ListEvents(r.Context(), stream, strings.TrimSpace(q.Get("run")), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(events); err != nil {
			logger.Warn("写入事件响应失败", zap.Error(err))
		}
	})
	return mux
}

// ServeEvents 提供 GET /events?stream=&run=&limit= 查询历史事件，阻塞直到 ctx 结束。
func ServeEvents(ctx context.Context, svc *history.Service, port int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{Addr: addr, Handler: eventsHandler(svc, logger)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("关闭事件服务失败", zap.Error(err))
		}
	}()

	logger.Info("事件接口已启动", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("事件服务异常: %w", err)
	}
	return nil
}
