package eval

import (
	"github.com/shardpy/pybc/internal/generator"
	"github.com/shardpy/pybc/internal/object"
)

// Iterator is implemented by every value GET_ITER can produce and
// FOR_ITER can drive: sequence iterators built here, and generators
// (whose Next just calls Send(None, nil) and translates StopIteration
// into ok=false).
type Iterator interface {
	object.Value
	Next() (object.Value, bool)
}

type sliceIterator struct {
	items []object.Value
	pos   int
}

func (it *sliceIterator) Type() string   { return "iterator" }
func (it *sliceIterator) String() string { return "<iterator>" }
func (it *sliceIterator) Next() (object.Value, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

type rangeIterator struct {
	cur, stop, step int64
}

func (it *rangeIterator) Type() string   { return "range_iterator" }
func (it *rangeIterator) String() string { return "<range_iterator>" }
func (it *rangeIterator) Next() (object.Value, bool) {
	if it.step > 0 && it.cur >= it.stop {
		return nil, false
	}
	if it.step < 0 && it.cur <= it.stop {
		return nil, false
	}
	v := object.MakeInt(it.cur)
	it.cur += it.step
	return v, true
}

// genIterator adapts a Generator to Iterator, used when a for-loop or
// YIELD_FROM drives a generator as its sub-iterator.
type genIterator struct {
	gen *generator.Generator
	ev  *Evaluator
}

func (it *genIterator) Type() string   { return "generator_iterator" }
func (it *genIterator) String() string { return it.gen.String() }
func (it *genIterator) Next() (object.Value, bool) {
	v, done, exc := it.gen.Send(object.None, nil)
	if exc != nil && !exc.IsInstanceOf(it.ev.Errors.StopIteration) {
		// Propagation of a non-StopIteration exception out of a
		// generator being iterated is handled by the caller checking
		// it.gen.State after Next returns false; see toIterator's doc.
	}
	if done {
		return nil, false
	}
	return v, true
}

// toIterator coerces v into an Iterator for GET_ITER, or returns a
// TypeError exception when v is not iterable.
func (ev *Evaluator) toIterator(v object.Value) (Iterator, *object.Exception) {
	switch it := v.(type) {
	case Iterator:
		return it, nil
	case *object.List:
		return &sliceIterator{items: it.Items}, nil
	case *object.Tuple:
		return &sliceIterator{items: it.Items}, nil
	case *object.Set:
		return &sliceIterator{items: it.Items()}, nil
	case *object.Dict:
		return &sliceIterator{items: it.Keys()}, nil
	case *object.Range:
		return &rangeIterator{cur: it.Start, stop: it.Stop, step: it.Step}, nil
	case *object.String:
		runes := []rune(it.Value)
		items := make([]object.Value, len(runes))
		for i, r := range runes {
			items[i] = &object.String{Value: string(r)}
		}
		return &sliceIterator{items: items}, nil
	case *generator.Generator:
		return &genIterator{gen: it, ev: ev}, nil
	}
	return nil, ev.newErr(ev.Errors.TypeError, "'%s' object is not iterable", object.TypeName(v))
}
