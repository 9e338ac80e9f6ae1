package scripting

import (
	"context"

	"github.com/dop251/goja"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

func (e *GojaEngine) RegisterDOM(dom DeckDOM) error {
	deckObj := e.vm.NewObject()

	deckObj.DefineAccessorProperty("title",
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return e.vm.ToValue(dom.Title())
		}),
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				dom.SetTitle(call.Arguments[0].String())
			}
			return goja.Undefined()
		}),
		goja.FLAG_TRUE,
		goja.FLAG_TRUE,
	)

	if err := deckObj.Set("slideCount", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.SlideCount())
	}); err != nil {
		return err
	}

	if err := deckObj.Set("slide", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		idx := int(call.Arguments[0].ToInteger())
		slide, err := dom.GetSlide(idx)
		if err != nil || slide == nil {
			return goja.Null()
		}
		return e.slideObject(slide)
	}); err != nil {
		return err
	}

	if err := deckObj.Set("addSlide", func(call goja.FunctionCall) goja.Value {
		return e.slideObject(dom.AddSlide())
	}); err != nil {
		return err
	}

	e.vm.Set("deck", deckObj)

	e.vm.Set("log", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		dom.Log(msg)
		return goja.Undefined()
	})

	return nil
}

// slideObject wraps a slide proxy as a JS object. Errors surface as
// thrown JS exceptions so scripts can catch them.
func (e *GojaEngine) slideObject(slide SlideProxy) goja.Value {
	obj := e.vm.NewObject()
	obj.Set("index", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(slide.GetIndex())
	})
	obj.Set("frameCount", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(slide.FrameCount())
	})
	obj.Set("text", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		text, err := slide.GetText(int(call.Arguments[0].ToInteger()))
		if err != nil {
			panic(e.vm.ToValue(err.Error()))
		}
		return e.vm.ToValue(text)
	})
	obj.Set("setText", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		if err := slide.SetText(int(call.Arguments[0].ToInteger()), call.Arguments[1].String()); err != nil {
			panic(e.vm.ToValue(err.Error()))
		}
		return goja.Undefined()
	})
	obj.Set("addText", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 6 {
			return goja.Undefined()
		}
		err := slide.AddText(
			call.Arguments[0].ToFloat(),
			call.Arguments[1].ToFloat(),
			call.Arguments[2].ToFloat(),
			call.Arguments[3].ToFloat(),
			call.Arguments[4].String(),
			call.Arguments[5].ToFloat(),
		)
		if err != nil {
			panic(e.vm.ToValue(err.Error()))
		}
		return goja.Undefined()
	})
	return obj
}
