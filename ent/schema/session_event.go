package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records one mutation of an assessment session.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("action").
			NotEmpty().
			Comment("create, select_category, rate, notes, advance, retreat, complete, report, debrief or discard"),
		field.String("category").
			Default("").
			Comment("Active category at the time of the event"),
		field.Int("question_id").
			Default(0).
			Comment("Question touched by rate and notes"),
		field.Int("rating").
			Default(0).
			Comment("New rating (rate only)"),
		field.String("notes").
			Default("").
			Comment("New notes (notes only)"),
		field.Int("question_index").
			Default(0).
			Comment("Cursor position after the event"),
		field.String("detail").
			Default("").
			Comment("Free-form context such as a report path"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
