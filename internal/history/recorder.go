package history

import (
	"context"

	"treasury-desk/internal/pubsub"
)

// Recorder 把某类数据写入历史服务，既可作为监听者挂在服务上，也可作为 connector 使用。
type Recorder[V any] struct {
	pubsub.AddOnly[V]

	svc    *Service
	stream Stream
	key    func(V) string
	lines  func(V) []string
}

// NewRecorder 创建记录器，key 生成持久化键，lines 生成文本行。
func NewRecorder[V any](svc *Service, stream Stream, key func(V) string, lines func(V) []string) *Recorder[V] {
	return &Recorder[V]{svc: svc, stream: stream, key: key, lines: lines}
}

// Stream 返回记录器对应的数据流。
func (r *Recorder[V]) Stream() Stream {
	return r.stream
}

// OnAdd 持久化新增数据。
func (r *Recorder[V]) OnAdd(v V) error {
	return r.PersistData(r.key(v), v)
}

// Publish 持久化经 connector 发出的数据。
func (r *Recorder[V]) Publish(v V) error {
	return r.PersistData(r.key(v), v)
}

// PersistData 以给定键写入一条记录。
func (r *Recorder[V]) PersistData(key string, v V) error {
	return r.svc.Persist(context.Background(), r.stream, key, r.lines(v), v)
}
