package history

import (
	"encoding/json"
	"time"
)

// Stream 表示历史数据流类型。
type Stream string

const (
	StreamPrice      Stream = "gui"
	StreamStreaming  Stream = "streaming"
	StreamPosition   Stream = "position"
	StreamRisk       Stream = "risk"
	StreamRiskBucket Stream = "risk_bucket"
	StreamExecution  Stream = "execution"
	StreamInquiry    Stream = "inquiry"
)

// sinkFiles 为每个数据流对应的追加写文件，产品风险与分组风险写入同一文件。
var sinkFiles = map[Stream]string{
	StreamPrice:      "gui.txt",
	StreamStreaming:  "streaming.txt",
	StreamPosition:   "position.txt",
	StreamRisk:       "risk.txt",
	StreamRiskBucket: "risk.txt",
	StreamExecution:  "execution.txt",
	StreamInquiry:    "allinquiries.txt",
}

// Streams 返回全部数据流。
func Streams() []Stream {
	return []Stream{StreamPrice, StreamStreaming, StreamPosition, StreamRisk, StreamRiskBucket, StreamExecution, StreamInquiry}
}

// Event 为一条持久化的历史记录。
type Event struct {
	ID         int64           `json:"id"`
	RunID      string          `json:"run_id"`
	Stream     Stream          `json:"stream"`
	PersistKey string          `json:"persist_key"`
	Timestamp  time.Time       `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
}
