package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"treasury-desk/internal/store"
)

// Config 控制历史输出。
type Config struct {
	// Dir 为文本输出目录，空表示不写文本文件。
	Dir string
	// TimestampLayout 为每行开头时间戳的格式。
	TimestampLayout string
}

// Service 负责持久化历史数据：每条记录追加一行带时间戳的文本，并写入 SQLite。
type Service struct {
	db     *sql.DB
	cfg    Config
	runID  string
	files  map[string]*os.File
	now    func() time.Time
	logger *zap.Logger
}

// NewService 初始化历史服务并创建表结构，每个实例拥有独立的运行编号。
func NewService(st *store.Store, cfg Config, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("history: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = "2006-01-02 15:04:05.000"
	}

	s := &Service{
		db:     st.DB(),
		cfg:    cfg,
		runID:  uuid.NewString(),
		files:  make(map[string]*os.File),
		now:    time.Now,
		logger: logger,
	}

	if err := st.Migrate(context.Background(), schema...); err != nil {
		return nil, fmt.Errorf("history: 初始化表失败: %w", err)
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: 创建输出目录 %q 失败: %w", cfg.Dir, err)
		}
	}

	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS history_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	stream TEXT NOT NULL,
	persist_key TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_history_events_stream ON history_events(stream)`,
	`CREATE INDEX IF NOT EXISTS idx_history_events_run ON history_events(run_id)`,
}

// RunID 返回本次运行的编号。
func (s *Service) RunID() string {
	return s.runID
}

// Persist 写入一条记录：lines 中每行追加到数据流对应的文本文件，payload 序列化后写入数据库。
func (s *Service) Persist(ctx context.Context, stream Stream, key string, lines []string, payload any) error {
	ts := s.now().UTC()

	if err := s.appendLines(stream, ts, lines); err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("history: 序列化 %s 记录失败: %w", stream, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history_events (run_id, stream, persist_key, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.runID, string(stream), key, string(raw), ts.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("history: 写入 %s 记录失败: %w", stream, err)
	}
	return nil
}

func (s *Service) appendLines(stream Stream, ts time.Time, lines []string) error {
	if s.cfg.Dir == "" || len(lines) == 0 {
		return nil
	}
	name, ok := sinkFiles[stream]
	if !ok {
		return fmt.Errorf("history: 未知数据流 %q", stream)
	}

	f, err := s.file(name)
	if err != nil {
		return err
	}
	stamp := ts.Local().Format(s.cfg.TimestampLayout)
	for _, line := range lines {
		if _, err := fmt.Fprintf(f, "%s,%s\n", stamp, line); err != nil {
			return fmt.Errorf("history: 写入 %s 失败: %w", name, err)
		}
	}
	return nil
}

func (s *Service) file(name string) (*os.File, error) {
	if f, ok := s.files[name]; ok {
		return f, nil
	}
	path := filepath.Join(s.cfg.Dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("history: 打开 %s 失败: %w", path, err)
	}
	s.files[name] = f
	return f, nil
}

// ListEvents 按数据流检索最近事件，stream 为空表示全部；runID 为空表示不限运行。
func (s *Service) ListEvents(ctx context.Context, stream Stream, runID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, run_id, stream, persist_key, payload, created_at FROM history_events`
	conds := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if stream != "" {
		conds = append(conds, `stream = ?`)
		args = append(args, string(stream))
	}
	if runID != "" {
		conds = append(conds, `run_id = ?`)
		args = append(args, runID)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: 查询事件失败: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var (
			ev      Event
			typ     string
			payload string
			created string
		)
		if scanErr := rows.Scan(&ev.ID, &ev.RunID, &typ, &ev.PersistKey, &payload, &created); scanErr != nil {
			return nil, fmt.Errorf("history: 解析事件失败: %w", scanErr)
		}

		ts, parseErr := time.Parse(time.RFC3339Nano, created)
		if parseErr != nil {
			s.logger.Warn("事件时间格式异常", zap.Int64("id", ev.ID), zap.String("created_at", created))
		}
		ev.Stream = Stream(typ)
		ev.Timestamp = ts
		ev.Payload = json.RawMessage(payload)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: 读取事件失败: %w", err)
	}

	return events, nil
}

// Close 关闭全部文本输出文件。
func (s *Service) Close() error {
	var err error
	for name, f := range s.files {
		if closeErr := f.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("history: 关闭 %s 失败: %w", name, closeErr))
		}
		delete(s.files, name)
	}
	return err
}
