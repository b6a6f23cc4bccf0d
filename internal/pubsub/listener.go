package pubsub

// ListenerFuncs 允许用函数组合出一个监听者，未设置的回调视为空操作。
type ListenerFuncs[V any] struct {
	Add    func(v V) error
	Remove func(v V) error
	Update func(v V) error
}

func (f ListenerFuncs[V]) OnAdd(v V) error {
	if f.Add == nil {
		return nil
	}
	return f.Add(v)
}

func (f ListenerFuncs[V]) OnRemove(v V) error {
	if f.Remove == nil {
		return nil
	}
	return f.Remove(v)
}

func (f ListenerFuncs[V]) OnUpdate(v V) error {
	if f.Update == nil {
		return nil
	}
	return f.Update(v)
}

// AddOnly 是只关心新增事件的监听者基础实现，嵌入后只需实现 OnAdd。
type AddOnly[V any] struct{}

func (AddOnly[V]) OnRemove(V) error { return nil }

func (AddOnly[V]) OnUpdate(V) error { return nil }

// ConnectorFunc 把函数适配为 Connector。
type ConnectorFunc[V any] func(v V) error

func (f ConnectorFunc[V]) Publish(v V) error {
	if f == nil {
		return nil
	}
	return f(v)
}

// Recorder 收集新增事件，便于测试与调试。
type Recorder[V any] struct {
	AddOnly[V]
	Events []V
}

func (r *Recorder[V]) OnAdd(v V) error {
	r.Events = append(r.Events, v)
	return nil
}
