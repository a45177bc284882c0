package views

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/mgomes/okaylib/ok"
)

// watchedData is what a template receives: the value of a data instance,
// or the watched value itself when it is not an instance.
func watchedData(watch ok.Value) (ok.Value, error) {
	inst := watch.Instance()
	if inst == nil || !inst.Has("get") {
		return watch, nil
	}
	return inst.Invoke("get")
}

// fillElement replaces the children of el with the parsed markup.
func fillElement(el *html.Node, markup string) error {
	emptyElement(el)
	nodes, err := html.ParseFragment(strings.NewReader(markup), el)
	if err != nil {
		return fmt.Errorf("views: parse template output: %w", err)
	}
	for _, node := range nodes {
		el.AppendChild(node)
	}
	return nil
}

// SimpleView renders its template with the watched data when it is
// created and again on every change event of the watched data. The
// template member is a function taking the data and returning markup.
func simpleViewMembers() ok.Value {
	return ok.NewHash(map[string]ok.Value{
		"constructor": ok.Method("SimpleView", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "SimpleView")
			if err != nil {
				return ok.NewNil(), err
			}
			if _, err := call.SuperConstructor(args...); err != nil {
				return ok.NewNil(), err
			}
			if _, err := inst.Invoke("render"); err != nil {
				return ok.NewNil(), err
			}
			return inst.Invoke("start")
		}),
		"template": ok.NewNil(),
		"render": ok.Method("render", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "render")
			if err != nil {
				return ok.NewNil(), err
			}
			if _, err := inst.Invoke("empty"); err != nil {
				return ok.NewNil(), err
			}
			template := inst.Get("template").Function()
			el := Element(inst)
			if template == nil || el == nil {
				return ok.NewNil(), nil
			}
			data, err := watchedData(inst.Get("watch"))
			if err != nil {
				return ok.NewNil(), err
			}
			markup, err := inst.Invoke("template", data)
			if err != nil {
				return ok.NewNil(), err
			}
			return ok.NewNil(), fillElement(el, markup.String())
		}),
		"start": ok.Method("start", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "start")
			if err != nil {
				return ok.NewNil(), err
			}
			if _, err := call.Super("start", args...); err != nil {
				return ok.NewNil(), err
			}
			src, watching := inst.Get("watch").Emitter()
			if !watching {
				return ok.NewNil(), nil
			}
			render, err := handler(inst, "render")
			if err != nil {
				return ok.NewNil(), err
			}
			inst.ListenTo(src, ok.EventChange, render)
			return ok.NewNil(), nil
		}),
	})
}
