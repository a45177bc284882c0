// Package views binds ok data classes to element trees. Elements are
// golang.org/x/net/html nodes, so views render to HTML text without a
// browser.
package views

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mgomes/okaylib/ok"
)

// Views holds the view classes built on one factory.
type Views struct {
	factory    *ok.Factory
	view       *ok.Class
	simple     *ok.Class
	collection *ok.Class
}

// New builds View, SimpleView and CollectionView on f.
func New(f *ok.Factory) (*Views, error) {
	v := &Views{factory: f}
	var err error
	if v.view, err = f.Base().Extend(viewMembers()); err != nil {
		return nil, fmt.Errorf("build View: %w", err)
	}
	if v.simple, err = v.view.Extend(simpleViewMembers()); err != nil {
		return nil, fmt.Errorf("build SimpleView: %w", err)
	}
	if v.collection, err = v.view.Extend(collectionViewMembers(v.view)); err != nil {
		return nil, fmt.Errorf("build CollectionView: %w", err)
	}
	return v, nil
}

// MustNew is New that panics on error.
func MustNew(f *ok.Factory) *Views {
	v, err := New(f)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Views) Factory() *ok.Factory      { return v.factory }
func (v *Views) View() *ok.Class           { return v.view }
func (v *Views) SimpleView() *ok.Class     { return v.simple }
func (v *Views) CollectionView() *ok.Class { return v.collection }

// Element returns the element of a view, or nil when it has none.
func Element(view *ok.Instance) *html.Node {
	node, _ := view.Get("el").Host().(*html.Node)
	return node
}

// Render serializes the element of view.
func Render(view *ok.Instance) (string, error) {
	node := Element(view)
	if node == nil {
		return "", errors.New("views: view has no element")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", fmt.Errorf("views: render %s: %w", view.Class().Name(), err)
	}
	return buf.String(), nil
}

// NewElement creates a detached element with the given tag, id and
// classes.
func NewElement(tag, id string, classes []string) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if id != "" {
		node.Attr = append(node.Attr, html.Attribute{Key: "id", Val: id})
	}
	if len(classes) > 0 {
		node.Attr = append(node.Attr, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
	}
	return node
}

func emptyElement(node *html.Node) {
	for child := node.FirstChild; child != nil; child = node.FirstChild {
		node.RemoveChild(child)
	}
}

func detach(node *html.Node) {
	if node != nil && node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
}

func receiver(call *ok.Call, op string) (*ok.Instance, error) {
	inst := call.Instance()
	if inst == nil {
		return nil, fmt.Errorf("views: %s requires a view receiver, got %s", op, call.Receiver.Kind())
	}
	return inst, nil
}

func arg(args []ok.Value, i int) ok.Value {
	if i < len(args) {
		return args[i]
	}
	return ok.NewNil()
}

func handler(inst *ok.Instance, name string) (*ok.Function, error) {
	fn := inst.Get(name).Function()
	if fn == nil {
		return nil, fmt.Errorf("views: %s.%s is not a function", inst.Class().Name(), name)
	}
	return fn, nil
}

func childViews(inst *ok.Instance) *ok.Items {
	items := inst.Get("childViews").Items()
	if items == nil {
		items = ok.NewSequence()
		inst.Set("childViews", items.Value())
	}
	return items
}

// View owns one element and a list of child views. Options: tagName,
// classNames (merged into the inherited ones), id, el (an existing
// element as a host value) and watch (the data the view presents).
func viewMembers() ok.Value {
	return ok.NewHash(map[string]ok.Value{
		"constructor": ok.Method("View", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "View")
			if err != nil {
				return ok.NewNil(), err
			}
			options := arg(args, 0).Hash()
			if tag, found := options["tagName"]; found && tag.String() != "" {
				inst.Set("tagName", tag)
			}
			if classes, found := options["classNames"]; found {
				inst.Set("classNames", ok.MergeValues(inst.Get("classNames"), classes))
			}
			if el, found := options["el"]; found && el.Kind() == ok.KindHost {
				if _, err := inst.Invoke("setElement", el); err != nil {
					return ok.NewNil(), err
				}
			} else {
				if id, found := options["id"]; found && !id.IsNil() {
					inst.Set("id", id)
				}
				if _, err := inst.Invoke("createElement"); err != nil {
					return ok.NewNil(), err
				}
			}
			if watch, found := options["watch"]; found {
				inst.Set("watch", watch)
			}
			inst.Set("isStarted", ok.NewBool(false))
			inst.Set("childViews", ok.NewSequence().Value())
			return inst.Invoke("init", arg(args, 0))
		}),
		"mergeProperties": ok.Strings("classNames"),
		"classNames":      ok.Strings("ok-view"),
		"tagName":         ok.NewString("div"),
		"id":              ok.NewNil(),
		"el":              ok.NewNil(),
		"watch":           ok.NewNil(),
		"isStarted":       ok.NewBool(false),
		"childViews":      ok.NewNil(),
		"setElement": ok.Method("setElement", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "setElement")
			if err != nil {
				return ok.NewNil(), err
			}
			inst.Set("el", arg(args, 0))
			return ok.NewNil(), nil
		}),
		"createElement": ok.Method("createElement", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "createElement")
			if err != nil {
				return ok.NewNil(), err
			}
			var classes []string
			for _, name := range inst.Get("classNames").Elements() {
				classes = append(classes, name.String())
			}
			el := NewElement(inst.Get("tagName").String(), inst.Get("id").String(), classes)
			return inst.Invoke("setElement", ok.NewHost(el))
		}),
		"empty": ok.Method("empty", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "empty")
			if err != nil {
				return ok.NewNil(), err
			}
			if el := Element(inst); el != nil {
				emptyElement(el)
			}
			return ok.NewNil(), nil
		}),
		"render": ok.Method("render", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "render")
			if err != nil {
				return ok.NewNil(), err
			}
			return inst.Invoke("renderChildViews")
		}),
		"start": ok.Method("start", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "start")
			if err != nil {
				return ok.NewNil(), err
			}
			if _, err := inst.Invoke("stop"); err != nil {
				return ok.NewNil(), err
			}
			inst.Set("isStarted", ok.NewBool(true))
			return inst.Invoke("startChildViews")
		}),
		"stop": ok.Method("stop", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "stop")
			if err != nil {
				return ok.NewNil(), err
			}
			inst.Set("isStarted", ok.NewBool(false))
			inst.StopListening(nil, "", nil)
			return inst.Invoke("stopChildViews")
		}),
		// addChildView accepts a view instance, or a view class and its
		// options.
		"addChildView": ok.Method("addChildView", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "addChildView")
			if err != nil {
				return ok.NewNil(), err
			}
			view := arg(args, 0)
			if cls := view.Class(); cls != nil {
				created, err := cls.New(arg(args, 1))
				if err != nil {
					return ok.NewNil(), fmt.Errorf("views: create child %s: %w", cls.Name(), err)
				}
				view = created.Value()
			}
			child := view.Instance()
			if child == nil {
				return ok.NewNil(), fmt.Errorf("views: child view must be an instance, got %s", view.Kind())
			}
			if _, err := childViews(inst).Push(view); err != nil {
				return ok.NewNil(), err
			}
			if inst.Get("isStarted").Bool() {
				if _, err := child.Invoke("start"); err != nil {
					return ok.NewNil(), err
				}
			}
			return view, nil
		}),
		"removeChildView": ok.Method("removeChildView", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "removeChildView")
			if err != nil {
				return ok.NewNil(), err
			}
			view := arg(args, 0)
			children := childViews(inst)
			if index := children.IndexOf(view); index >= 0 {
				if _, err := children.Remove(index, 1); err != nil {
					return ok.NewNil(), err
				}
			}
			if child := view.Instance(); child != nil && inst.Get("isStarted").Bool() {
				return child.Invoke("stop")
			}
			return ok.NewNil(), nil
		}),
		"renderChildViews": ok.Method("renderChildViews", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "renderChildViews")
			if err != nil {
				return ok.NewNil(), err
			}
			_, err = childViews(inst).Invoke("render")
			return ok.NewNil(), err
		}),
		"startChildViews": ok.Method("startChildViews", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "startChildViews")
			if err != nil {
				return ok.NewNil(), err
			}
			_, err = childViews(inst).Invoke("start")
			return ok.NewNil(), err
		}),
		"stopChildViews": ok.Method("stopChildViews", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "stopChildViews")
			if err != nil {
				return ok.NewNil(), err
			}
			_, err = childViews(inst).Invoke("stop")
			return ok.NewNil(), err
		}),
	})
}
