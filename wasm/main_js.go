//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/cbm/api"
	"github.com/voxelsplace/cbm/cbm"
)

func toJS(out []byte) js.Value {
	uint8arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(uint8arr, out)
	return uint8arr
}

func fromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

// convertFunc wraps api.Convert for a fixed format pair.
func convertFunc(from, to cbm.Format) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return js.ValueOf("missing " + from.String() + " bytes")
		}
		opts := api.Options{}
		if len(args) > 1 && args[1].Truthy() {
			opts.Reorder = true
		}
		out, err := api.Convert(fromJS(args[0]), from, to, opts)
		if err != nil {
			return js.ValueOf(err.Error())
		}
		return toJS(out)
	})
}

func packMeshes(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing files object")
	}
	filesObj := args[0]
	files := map[string][]byte{}
	keys := js.Global().Get("Object").Call("keys", filesObj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		files[k] = fromJS(filesObj.Get(k))
	}
	comp := cbm.CompZstd
	if len(args) > 1 {
		c, err := cbm.ParseCompression(args[1].String())
		if err != nil {
			return js.ValueOf(err.Error())
		}
		comp = c
	}
	out, err := api.PackMeshes(files, comp, cbm.DefaultLevel)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toJS(out)
}

func unpackMeshes(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	files, err := api.UnpackToMemory(fromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	// names -> Uint8Array
	result := js.Global().Get("Object").New()
	for name, b := range files {
		result.Set(name, toJS(b))
	}
	return result
}

func cbmInfo(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing cbm bytes")
	}
	s, err := api.Describe(fromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(map[string]any{
		"vertices":     float64(s.Vertices),
		"faces":        float64(s.Faces),
		"encodedBytes": s.EncodedBytes,
		"rawBytes":     s.RawBytes,
		"ratio":        s.Ratio,
	})
}

func main() {
	js.Global().Set("obj2cbm", convertFunc(cbm.FormatOBJ, cbm.FormatCBM))
	js.Global().Set("cbm2obj", convertFunc(cbm.FormatCBM, cbm.FormatOBJ))
	js.Global().Set("cbm2glb", convertFunc(cbm.FormatCBM, cbm.FormatGLB))
	js.Global().Set("glb2cbm", convertFunc(cbm.FormatGLB, cbm.FormatCBM))
	js.Global().Set("packMeshes", js.FuncOf(packMeshes))
	js.Global().Set("unpackMeshes", js.FuncOf(unpackMeshes))
	js.Global().Set("cbmInfo", js.FuncOf(cbmInfo))
	select {}
}
