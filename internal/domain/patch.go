package domain

// Field is a tri-state patch value: unset (leave the column alone),
// set-to-null, or set-to-value. It replaces conditionally assembled
// SET clauses with a fixed update routine that inspects each field.
type Field[T any] struct {
	set  bool
	null bool
	val  T
}

// Set returns a field carrying a concrete value.
func Set[T any](v T) Field[T] {
	return Field[T]{set: true, val: v}
}

// SetNull returns a field that clears the column.
func SetNull[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// IsSet reports whether the field participates in the update at all.
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the field clears the column.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Value returns the concrete value and whether one is present.
func (f Field[T]) Value() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.val, true
}

// QuotePatch describes a partial update to a quote. Zero value means
// "change nothing". Text and IsPublic are NOT NULL columns, so SetNull
// on them is a caller bug and the store rejects it.
type QuotePatch struct {
	Text      Field[string]
	IsPublic  Field[bool]
	Embedding Field[[]float32]
}

// IsEmpty reports whether the patch would touch no columns.
func (p QuotePatch) IsEmpty() bool {
	return !p.Text.IsSet() && !p.IsPublic.IsSet() && !p.Embedding.IsSet()
}
