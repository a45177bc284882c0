// Package ok is a small model/view/controller toolkit built on dynamic
// values.
//
// Classes are built by a Factory from a parent and ordered fragments:
//
//	f := ok.MustNewFactory(ok.Config{})
//	Animal := f.Base().MustExtend(ok.NewHash(map[string]ok.Value{
//		"constructor": ok.Method("Animal", ...),
//		"speak":       ok.Method("speak", ...),
//	}))
//
// Later fragments override earlier members, except for merge keys: the
// member names listed in mergeProperties, whose values are concatenated
// (sequences) or unioned (hashes) with the inherited value. Overriding
// functions reach the implementation they shadow through Call.Super.
//
// # Events
//
// Every Instance and every Items sequence embeds a Hub. Items announces
// its structural changes:
//
//   - add(item, index) once per inserted element
//   - remove(item) once per removed element
//   - sort(items) after an in-place sort
//
// Data classes announce value changes as change(source, new, old).
//
// # Data classes
//
// NewFactory also builds Data, Property, Map, Collection and Controller.
// They are ordinary classes and can be extended like any other.
//
// Nothing in this package is safe for concurrent use.
package ok
