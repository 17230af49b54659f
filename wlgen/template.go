package main

// bindingTemplate emits one Go file per protocol, in the same shape
// as the hand-maintained files in wlp: enum constants, opcode
// constants, a listener interface, the object struct with its
// constructor and registration, the event dispatcher and one method
// per request.
const bindingTemplate = `package {{ .Package }}

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)
{{ $pkg := .Package }}
{{- range .Protocol.Interfaces }}
{{- $iface := . }}
{{- range .Enums }}
const (
{{- $enum := . }}
{{- range .Entries }}
	{{ ifname $iface.Name }}{{ camel $enum.Name }}{{ camel .Name }} = {{ .Value }}{{ if .Summary }} // {{ .Summary }}{{ end }}
{{- end }}
)
{{ end }}
{{- if .Events }}
const (
{{- range $i, $e := .Events }}
	opCode{{ ifname $iface.Name }}{{ camel $e.Name }} = {{ $i }}
{{- end }}
)
{{ end }}
{{- if .Requests }}
const (
{{- range $i, $r := .Requests }}
	opCode{{ ifname $iface.Name }}{{ camel $r.Name }} = {{ $i }}
{{- end }}
)
{{ end }}
{{- if .Events }}
// {{ ifname .Name }} Events
{{- range .Events }}
//
// {{ camel .Name }}
{{ desc_to_comment .Description.Text }}
{{- end }}
type {{ ifname .Name }}Listener interface {
{{- range .Events }}
	{{ camel .Name }}({{ req_sig .Args }})
{{- end }}
}
{{- else }}
// {{ ifname .Name }}Listener is empty because {{ .Name }} has no
// events.
type {{ ifname .Name }}Listener interface {
}
{{- end }}

{{ desc_to_comment .Description.Text }}type {{ ifname .Name }} struct {
	i uint32
	l {{ ifname .Name }}Listener
	c *Context
}

func new{{ ifname .Name }}(c *Context) Object {
	o := &{{ ifname .Name }}{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("{{ .Name }}", {{ .Version }}, new{{ ifname .Name }})
}

// ID returns the wayland object identifier
func (this *{{ ifname .Name }}) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *{{ ifname .Name }}) Type() string {
	return "{{ .Name }}"
}

func (this *{{ ifname .Name }}) setListener(listener interface{}) error {
	l, ok := listener.({{ ifname .Name }}Listener)
	if !ok {
		return errors.Errorf("listener must implement {{ ifname .Name }} interface")
	}
	this.l = l
	return nil
}

{{ if .Events -}}
func (this *{{ ifname .Name }}) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
{{- range .Events }}
	case opCode{{ ifname $iface.Name }}{{ camel .Name }}:
{{ arg_decode .Args }}		this.l.{{ camel .Name }}({{ evt_call .Args }})
{{- end }}
	}
}
{{- else -}}
func (this *{{ ifname .Name }}) dispatch(opCode uint16, payload []byte, file *os.File) {
}
{{- end }}
{{ range .Requests }}
{{ desc_to_comment .Description.Text }}
{{- $new := new_iface .Args }}
{{- if $new }}func (this *{{ ifname $iface.Name }}) {{ camel .Name }}(l {{ ifname $new }}Listener{{ if req_sig .Args }}, {{ req_sig .Args }}{{ end }}) {{ req_ret_sig .Args }} {
	if this == nil {
		return nil, errors.New("object is nil")
	}
	this.c.mu.Lock()
	defer this.c.mu.Unlock()
	if err := this.c.writable(this.i); err != nil {
		return nil, err
	}
{{- else }}func (this *{{ ifname $iface.Name }}) {{ camel .Name }}({{ req_sig .Args }}) {{ req_ret_sig .Args }} {
	if this == nil {
		return errors.New("object is nil")
	}
	this.c.mu.Lock()
	defer this.c.mu.Unlock()
	if err := this.c.writable(this.i); err != nil {
		return err
	}
{{- end }}
	this.c.buf.Reset()
	this.c.buf.Write(hdrPad[:])
{{ arg_encode .Args }}	EncodeHeader(this.c.buf.Bytes(), this.i, opCode{{ ifname $iface.Name }}{{ camel .Name }}, this.c.buf.Len())
{{- if $new }}
	ret.l = l
	return ret, this.c.flush(nil)
{{- else }}
	return this.c.flush(nil)
{{- end }}
}
{{ end }}
{{- end }}`
