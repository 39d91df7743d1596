package score

// value holds a field and the hooks to call when it changes.
type value[T comparable] struct {
	v        T
	handlers []func(old, new T)
}

func (b *value[T]) Get() T {
	return b.v
}

// Set stores v and calls every handler if it differs from the current value.
func (b *value[T]) Set(v T) {
	if v == b.v {
		return
	}
	old := b.v
	b.v = v
	for _, h := range b.handlers {
		h(old, v)
	}
}

func (b *value[T]) OnChange(h func(old, new T)) {
	b.handlers = append(b.handlers, h)
}
