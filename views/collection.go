package views

import (
	"fmt"
	"maps"
	"slices"

	"golang.org/x/net/html"

	"github.com/mgomes/okaylib/ok"
)

// watchedItems returns the sequence behind the watched value: the value
// itself when it is a sequence, or the items field of a collection.
func watchedItems(watch ok.Value) *ok.Items {
	if items := watch.Items(); items != nil {
		return items
	}
	if inst := watch.Instance(); inst != nil {
		return inst.Get("items").Items()
	}
	return nil
}

// itemChild pairs a watched element with the view presenting it.
type itemChild struct {
	item ok.Value
	view *ok.Instance
}

// children returns the item/view pairs of a collection view.
func children(inst *ok.Instance) *[]itemChild {
	if list, found := inst.Get("children").Host().(*[]itemChild); found {
		return list
	}
	list := &[]itemChild{}
	inst.Set("children", ok.NewHost(list))
	return list
}

// dropChild detaches and stops the child view at position i.
func dropChild(inst *ok.Instance, i int) error {
	list := children(inst)
	c := (*list)[i]
	detach(Element(c.view))
	*list = slices.Delete(*list, i, i+1)
	if _, err := inst.Invoke("removeChildView", c.view.Value()); err != nil {
		return err
	}
	_, err := c.view.Invoke("stop")
	return err
}

// CollectionView presents each element of a watched collection or
// sequence with one child view, and follows its add, remove and sort
// events. Options: defaultConstructor (the child view class) and
// childOptions (extra options for every child view).
func collectionViewMembers(view *ok.Class) ok.Value {
	return ok.NewHash(map[string]ok.Value{
		"constructor": ok.Method("CollectionView", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "CollectionView")
			if err != nil {
				return ok.NewNil(), err
			}
			if _, err := call.SuperConstructor(args...); err != nil {
				return ok.NewNil(), err
			}
			children(inst)
			options := arg(args, 0).Hash()
			if childOptions, found := options["childOptions"]; found {
				inst.Set("childOptions", childOptions)
			}
			if ctor, found := options["defaultConstructor"]; found && ctor.Class() != nil {
				inst.Set("defaultConstructor", ctor)
			}
			return ok.NewNil(), nil
		}),
		"defaultConstructor": ok.NewClass(view),
		"childOptions":       ok.NewNil(),
		"children":           ok.NewNil(),
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
			for _, binding := range [][2]string{
				{ok.EventAdd, "addItem"},
				{ok.EventRemove, "removeItem"},
				{ok.EventSort, "sort"},
			} {
				fn, err := handler(inst, binding[1])
				if err != nil {
					return ok.NewNil(), err
				}
				inst.ListenTo(src, binding[0], fn)
			}
			return ok.NewNil(), nil
		}),
		"render": ok.Method("render", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "render")
			if err != nil {
				return ok.NewNil(), err
			}
			for len(*children(inst)) > 0 {
				if err := dropChild(inst, 0); err != nil {
					return ok.NewNil(), err
				}
			}
			if _, err := inst.Invoke("empty"); err != nil {
				return ok.NewNil(), err
			}
			items := watchedItems(inst.Get("watch"))
			if items == nil {
				return ok.NewNil(), nil
			}
			for i, item := range items.All() {
				if _, err := inst.Invoke("addItem", item, ok.NewInt(int64(i))); err != nil {
					return ok.NewNil(), err
				}
			}
			return ok.NewNil(), nil
		}),
		"sort": ok.Method("sort", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "sort")
			if err != nil {
				return ok.NewNil(), err
			}
			return inst.Invoke("render")
		}),
		// addItem creates the view for item and places it at index among
		// the children, before the element of the child that follows it.
		"addItem": ok.Method("addItem", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "addItem")
			if err != nil {
				return ok.NewNil(), err
			}
			item := arg(args, 0)
			created, err := inst.Invoke("getItemView", item)
			if err != nil {
				return ok.NewNil(), err
			}
			child := created.Instance()
			if child == nil {
				return ok.NewNil(), fmt.Errorf("views: item view must be an instance, got %s", created.Kind())
			}
			list := children(inst)
			index := len(*list)
			if at := arg(args, 1); at.Kind() == ok.KindInt {
				index = max(0, min(int(at.Int()), len(*list)))
			}
			*list = slices.Insert(*list, index, itemChild{item: item, view: child})
			if _, err := inst.Invoke("addChildView", created); err != nil {
				return ok.NewNil(), err
			}
			if _, err := child.Invoke("render"); err != nil {
				return ok.NewNil(), err
			}
			el, childEl := Element(inst), Element(child)
			if el == nil || childEl == nil {
				return created, nil
			}
			detach(childEl)
			var nextEl *html.Node
			if index+1 < len(*list) {
				nextEl = Element((*list)[index+1].view)
			}
			if nextEl != nil && nextEl.Parent == el {
				el.InsertBefore(childEl, nextEl)
			} else {
				el.AppendChild(childEl)
			}
			return created, nil
		}),
		// removeItem drops the child of an element that has just left the
		// watched sequence: the first child that no longer lines up with
		// the sequence at its position.
		"removeItem": ok.Method("removeItem", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "removeItem")
			if err != nil {
				return ok.NewNil(), err
			}
			item := arg(args, 0)
			list := children(inst)
			items := watchedItems(inst.Get("watch"))
			for i, c := range *list {
				if items != nil && i < items.Len() && c.item.Equal(items.At(i)) {
					continue
				}
				if !c.item.Equal(item) {
					continue
				}
				return ok.NewNil(), dropChild(inst, i)
			}
			return ok.NewNil(), nil
		}),
		"getConstructor": ok.Method("getConstructor", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "getConstructor")
			if err != nil {
				return ok.NewNil(), err
			}
			return inst.Get("defaultConstructor"), nil
		}),
		"getChildOptions": ok.Method("getChildOptions", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "getChildOptions")
			if err != nil {
				return ok.NewNil(), err
			}
			return inst.Get("childOptions"), nil
		}),
		"getItemView": ok.Method("getItemView", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			inst, err := receiver(call, "getItemView")
			if err != nil {
				return ok.NewNil(), err
			}
			item := arg(args, 0)
			ctor, err := inst.Invoke("getConstructor", item)
			if err != nil {
				return ok.NewNil(), err
			}
			cls := ctor.Class()
			if cls == nil {
				return ok.NewNil(), fmt.Errorf("views: item view constructor must be a class, got %s", ctor.Kind())
			}
			childOptions, err := inst.Invoke("getChildOptions")
			if err != nil {
				return ok.NewNil(), err
			}
			options := map[string]ok.Value{"watch": item}
			maps.Copy(options, childOptions.Hash())
			created, err := cls.New(ok.NewHash(options))
			if err != nil {
				return ok.NewNil(), fmt.Errorf("views: create item view: %w", err)
			}
			return created.Value(), nil
		}),
	})
}
