package spec

// Resolver follows one reference hop for a component URI.
type Resolver[T any] func(uri string) (RefOr[T], error)

// RefOr is either an inline object or a reference to a component. References
// carry the resolver of the document that produced them, so they can be
// followed without further context.
type RefOr[T any] struct {
	object  T
	uri     string
	isRef   bool
	resolve Resolver[T]
}

// Inline wraps an inline object.
func Inline[T any](v T) RefOr[T] {
	return RefOr[T]{object: v}
}

// Ref builds a reference to uri.
func Ref[T any](uri string, resolve Resolver[T]) RefOr[T] {
	return RefOr[T]{uri: uri, isRef: true, resolve: resolve}
}

// IsRef reports whether r is a reference.
func (r RefOr[T]) IsRef() bool { return r.isRef }

// URI returns the reference target, or "" for inline objects.
func (r RefOr[T]) URI() string { return r.uri }

// Object returns the inline object.
func (r RefOr[T]) Object() (T, bool) { return r.object, !r.isRef }

// ResolveOnce follows a single reference hop. Inline objects are returned
// unchanged.
func (r RefOr[T]) ResolveOnce() (RefOr[T], error) {
	if !r.isRef {
		return r, nil
	}
	if r.resolve == nil {
		return RefOr[T]{}, &SpecError{Code: DanglingReference, Message: "reference " + r.uri + " has no resolver", Pointer: r.uri}
	}
	return r.resolve(r.uri)
}

// ResolveFully follows references until an inline object is reached.
func (r RefOr[T]) ResolveFully() (T, error) {
	var zero T
	seen := map[string]bool{}
	cur := r
	for cur.isRef {
		if seen[cur.uri] {
			return zero, &SpecError{Code: CyclicReference, Message: "reference cycle through " + cur.uri, Pointer: cur.uri}
		}
		seen[cur.uri] = true
		next, err := cur.ResolveOnce()
		if err != nil {
			return zero, err
		}
		cur = next
	}
	return cur.object, nil
}
