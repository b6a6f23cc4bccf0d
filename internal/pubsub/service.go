package pubsub

import (
	"errors"
	"fmt"
)

// ErrNotFound 表示按键查找时数据不存在。
var ErrNotFound = errors.New("key not found")

// Listener 描述对某类事件的订阅能力，新增、更新、删除各对应一个回调。
type Listener[V any] interface {
	OnAdd(v V) error
	OnRemove(v V) error
	OnUpdate(v V) error
}

// Connector 是服务的外部出口，把数据发布到外部下游。
type Connector[V any] interface {
	Publish(v V) error
}

// Service 是按键存储数据并向监听者广播变化的组合单元。
type Service[K comparable, V any] interface {
	// GetData 按键读取数据，不存在时返回 ErrNotFound。
	GetData(key K) (V, error)
	// OnMessage 接收一条数据，更新存储后同步通知监听者。
	OnMessage(v V) error
	// AddListener 注册监听者，注册顺序即通知顺序。
	AddListener(l Listener[V])
	// GetListeners 返回按注册顺序排列的监听者。
	GetListeners() []Listener[V]
}

// Store 为各阶段服务提供键值存储与有序的监听者列表。
// 单线程使用，不做加锁。
type Store[K comparable, V any] struct {
	name      string
	data      map[K]V
	listeners []Listener[V]
}

// NewStore 创建空存储，name 用于错误信息。
func NewStore[K comparable, V any](name string) *Store[K, V] {
	return &Store[K, V]{
		name: name,
		data: make(map[K]V),
	}
}

// Name 返回存储所属的服务名。
func (s *Store[K, V]) Name() string {
	return s.name
}

// Get 读取键对应的数据。
func (s *Store[K, V]) Get(key K) (V, error) {
	v, ok := s.data[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%s: %v: %w", s.name, key, ErrNotFound)
	}
	return v, nil
}

// Has 判断键是否存在。
func (s *Store[K, V]) Has(key K) bool {
	_, ok := s.data[key]
	return ok
}

// Put 覆盖写入键对应的数据。
func (s *Store[K, V]) Put(key K, v V) {
	s.data[key] = v
}

// Len 返回当前键数量。
func (s *Store[K, V]) Len() int {
	return len(s.data)
}

// AddListener 追加监听者。
func (s *Store[K, V]) AddListener(l Listener[V]) {
	if l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
}

// Listeners 返回监听者副本，调用方修改不影响内部顺序。
func (s *Store[K, V]) Listeners() []Listener[V] {
	return append([]Listener[V](nil), s.listeners...)
}

// NotifyAdd 依次调用每个监听者的 OnAdd，遇到第一个错误即停止。
func (s *Store[K, V]) NotifyAdd(v V) error {
	for i, l := range s.listeners {
		if err := l.OnAdd(v); err != nil {
			return fmt.Errorf("%s: 监听者 #%d 处理失败: %w", s.name, i, err)
		}
	}
	return nil
}

// NotifyUpdate 依次调用每个监听者的 OnUpdate。
func (s *Store[K, V]) NotifyUpdate(v V) error {
	for i, l := range s.listeners {
		if err := l.OnUpdate(v); err != nil {
			return fmt.Errorf("%s: 监听者 #%d 处理更新失败: %w", s.name, i, err)
		}
	}
	return nil
}

// NotifyRemove 依次调用每个监听者的 OnRemove。
func (s *Store[K, V]) NotifyRemove(v V) error {
	for i, l := range s.listeners {
		if err := l.OnRemove(v); err != nil {
			return fmt.Errorf("%s: 监听者 #%d 处理删除失败: %w", s.name, i, err)
		}
	}
	return nil
}
