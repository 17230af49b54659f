// wlgen generates wayland client bindings from protocol XML files.
//
// Usage:
//
//	wlgen -pkg wlp -o wlp/viewporter.go protocol/viewporter.xml
package main

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"flag"
	"fmt"
	"go/format"
	"io/ioutil"
	"log"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/serenize/snaker"
)

type Description struct {
	Summary string `xml:"summary,attr"`
	Text    string `xml:",chardata"`
}

type Request struct {
	Name        string       `xml:"name,attr"`
	Type        string       `xml:"type,attr"`
	Since       string       `xml:"since,attr"`
	Description *Description `xml:"description"`
	Args        []*Arg       `xml:"arg"`
}

type Event struct {
	Name        string       `xml:"name,attr"`
	Since       string       `xml:"since,attr"`
	Description *Description `xml:"description"`
	Args        []*Arg       `xml:"arg"`
}

type Enum struct {
	Name        string       `xml:"name,attr"`
	Since       string       `xml:"since,attr"`
	Bitfield    string       `xml:"bitfield,attr"`
	Description *Description `xml:"description"`
	Entries     []*Entry     `xml:"entry"`
}

type Arg struct {
	Name        string       `xml:"name,attr"`
	Type        string       `xml:"type,attr"`
	Summary     string       `xml:"summary,attr"`
	Interface   string       `xml:"interface,attr"`
	AllowNull   string       `xml:"allow-null,attr"`
	Enum        string       `xml:"enum,attr"`
	Description *Description `xml:"description"`
}

type Entry struct {
	Name        string       `xml:"name,attr"`
	Value       string       `xml:"value,attr"`
	Summary     string       `xml:"summary,attr"`
	Since       string       `xml:"since,attr"`
	Description *Description `xml:"description"`
}

type Interface struct {
	Name        string       `xml:"name,attr"`
	Version     string       `xml:"version,attr"`
	Description *Description `xml:"description"`
	Requests    []*Request   `xml:"request"`
	Events      []*Event     `xml:"event"`
	Enums       []*Enum      `xml:"enum"`
}

type Protocol struct {
	Name        string       `xml:"name,attr"`
	Copyright   string       `xml:"copyright"`
	Description *Description `xml:"description"`
	Interfaces  []*Interface `xml:"interface"`
}

func parse(raw []byte) (*Protocol, error) {
	p := &Protocol{}
	err := xml.Unmarshal(raw, p)
	return p, errors.Wrap(err, "unable to parse xml")
}

func genTemplate(templateText string) *template.Template {
	funcMap := template.FuncMap{
		"ifname":          InterfaceName,
		"camel":           snaker.SnakeToCamel,
		"camel_lower":     snaker.SnakeToCamelLower,
		"desc_to_comment": DescriptionToComment,
		"req_sig":         ReqSignature,
		"req_ret_sig":     ReqReturnSignature,
		"req_ret":         ReqReturn,
		"evt_call":        EvtCall,
		"arg_decode":      ArgDecode,
		"arg_encode":      ArgEncode,
		"new_iface":       NewInterface,
		"has_events":      HasEvents,
	}

	return template.Must(template.New("wl").Funcs(funcMap).Parse(templateText))
}

// InterfaceName maps a protocol interface name to the Go type name.
// The wl_ prefix of core interfaces is dropped; extension prefixes
// like wp_ are kept to avoid collisions.
func InterfaceName(name string) string {
	name = strings.TrimPrefix(name, "wl_")
	return snaker.SnakeToCamel(name)
}

func DescriptionToComment(desc string) string {
	buf := &bytes.Buffer{}
	scanner := bufio.NewScanner(strings.NewReader(strings.TrimSpace(desc)))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			buf.WriteString("//\n")
			continue
		}
		buf.WriteString("// ")
		buf.Write(line)
		buf.WriteString("\n")
	}
	return buf.String()
}

func ArgName(arg *Arg) string {
	name := snaker.SnakeToCamelLower(arg.Name)
	if name == "interface" {
		name = "iface"
	}
	return name
}

func ArgSignature(arg *Arg) string {
	name := ArgName(arg)
	buf := bytes.NewBufferString(name)
	buf.WriteString(" ")
	switch arg.Type {
	case "int":
		buf.WriteString("int32")
	case "uint", "object":
		buf.WriteString("uint32")
	case "fixed":
		buf.WriteString("float64")
	case "string":
		buf.WriteString("string")
	case "array":
		buf.WriteString("[]byte")
	case "fd":
		buf.WriteString("*os.File")
	case "new_id":
		if arg.Interface == "" {
			buf.WriteString("uint32")
		} else {
			return ""
		}
	default:
		return ""
	}
	return buf.String()
}

// NewInterface returns the interface a request instantiates, or the
// empty string for plain requests.
func NewInterface(args []*Arg) string {
	for _, arg := range args {
		if arg.Type == "new_id" {
			return arg.Interface
		}
	}
	return ""
}

func HasEvents(iface *Interface) bool {
	return len(iface.Events) > 0
}

func ReqSignature(args []*Arg) string {
	argSigs := make([]string, 0)
	for _, arg := range args {
		newSig := ArgSignature(arg)
		if newSig != "" {
			argSigs = append(argSigs, newSig)
		}
	}
	return strings.Join(argSigs, ", ")
}

func ReqReturnSignature(args []*Arg) string {
	newTypeInterface := NewInterface(args)
	if newTypeInterface == "" {
		return "error"
	}
	return fmt.Sprintf("(*%s, error)", InterfaceName(newTypeInterface))
}

func ReqReturn(args []*Arg) string {
	if NewInterface(args) == "" {
		return "nil"
	}
	return "ret, nil"
}

func EvtCall(args []*Arg) string {
	argSigs := make([]string, 0)
	for _, arg := range args {
		name := ArgName(arg)
		if name != "" && arg.Type != "new_id" {
			argSigs = append(argSigs, name)
		}
	}
	return strings.Join(argSigs, ", ")
}

// ArgDecode emits the payload decoding statements for one event.
// Fixed-width arguments are sliced at static offsets; strings and
// arrays switch to a running offset from their first occurrence.
func ArgDecode(args []*Arg) string {
	buf := &bytes.Buffer{}
	loc := 0
	dynamic := false
	idx := func() string {
		if dynamic {
			return fmt.Sprintf("%d+off", loc)
		}
		return fmt.Sprintf("%d", loc)
	}
	for _, arg := range args {
		switch arg.Type {
		case "int":
			lo := idx()
			loc += 4
			fmt.Fprintf(buf, "\t\t%s := int32(hostByteOrder.Uint32(payload[%s : %s]))\n", ArgName(arg), lo, idx())
		case "uint", "object":
			lo := idx()
			loc += 4
			fmt.Fprintf(buf, "\t\t%s := hostByteOrder.Uint32(payload[%s : %s])\n", ArgName(arg), lo, idx())
		case "new_id":
			loc += 4
		case "fixed":
			lo := idx()
			loc += 4
			fmt.Fprintf(buf, "\t\t%s := fixedToFloat64(int32(hostByteOrder.Uint32(payload[%s : %s])))\n", ArgName(arg), lo, idx())
		case "string":
			lo := idx()
			loc += 4
			fmt.Fprintf(buf, "\t\tl := int(hostByteOrder.Uint32(payload[%s : %s]))\n", lo, idx())
			if !dynamic {
				fmt.Fprintf(buf, "\t\toff := 0\n")
				dynamic = true
			}
			fmt.Fprintf(buf, "\t\t%s := string(payload[%d+off : %d+off+l-1])\n", ArgName(arg), loc, loc)
			fmt.Fprintf(buf, "\t\toff += l\n")
			fmt.Fprintf(buf, "\t\tif off%%4 != 0 {\n\t\t\toff += 4 - off%%4\n\t\t}\n")
		case "array":
			lo := idx()
			loc += 4
			fmt.Fprintf(buf, "\t\tl := int(hostByteOrder.Uint32(payload[%s : %s]))\n", lo, idx())
			if !dynamic {
				fmt.Fprintf(buf, "\t\toff := 0\n")
				dynamic = true
			}
			fmt.Fprintf(buf, "\t\t%s := payload[%d+off : %d+off+l]\n", ArgName(arg), loc, loc)
			fmt.Fprintf(buf, "\t\toff += l\n")
			fmt.Fprintf(buf, "\t\tif off%%4 != 0 {\n\t\t\toff += 4 - off%%4\n\t\t}\n")
		case "fd":
			fmt.Fprintf(buf, "\t\t%s := file\n", ArgName(arg))
		default:
			return ""
		}
	}
	return buf.String()
}

// ArgEncode emits the request marshalling statements.
func ArgEncode(args []*Arg) string {
	buf := &bytes.Buffer{}
	for _, arg := range args {
		switch arg.Type {
		case "uint", "object":
			fmt.Fprintf(buf, "\tbinary.Write(this.c.buf, hostByteOrder, %s)\n", ArgName(arg))
		case "int":
			fmt.Fprintf(buf, "\tbinary.Write(this.c.buf, hostByteOrder, uint32(%s))\n", ArgName(arg))
		case "new_id":
			if arg.Interface == "" {
				fmt.Fprintf(buf, "\tbinary.Write(this.c.buf, hostByteOrder, %s)\n", ArgName(arg))
			} else {
				fmt.Fprintf(buf, "\tret := new%s(this.c).(*%s)\n",
					InterfaceName(arg.Interface), InterfaceName(arg.Interface))
				buf.WriteString("\tbinary.Write(this.c.buf, hostByteOrder, ret.i)\n")
			}
		case "fixed":
			fmt.Fprintf(buf, "\tbinary.Write(this.c.buf, hostByteOrder, uint32(float64ToFixed(%s)))\n", ArgName(arg))
		case "string":
			fmt.Fprintf(buf, "\tbinary.Write(this.c.buf, hostByteOrder, uint32(len(%s)+1))\n", ArgName(arg))
			fmt.Fprintf(buf, "\tthis.c.buf.WriteString(%s)\n", ArgName(arg))
			buf.WriteString("\tthis.c.buf.WriteByte(0)\n")
			buf.WriteString("\tfor this.c.buf.Len()%4 != 0 {\n\t\tthis.c.buf.WriteByte(0)\n\t}\n")
		case "array":
			fmt.Fprintf(buf, "\tbinary.Write(this.c.buf, hostByteOrder, uint32(len(%s)))\n", ArgName(arg))
			fmt.Fprintf(buf, "\tthis.c.buf.Write(%s)\n", ArgName(arg))
		case "fd":
			fmt.Fprintf(buf, "\toob := syscall.UnixRights(int(%s.Fd()))\n", ArgName(arg))
		default:
			return ""
		}
	}
	return buf.String()
}

func generate(pkg string, raw []byte) ([]byte, error) {
	p, err := parse(raw)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	err = genTemplate(bindingTemplate).Execute(buf, struct {
		Package  string
		Protocol *Protocol
	}{pkg, p})
	if err != nil {
		return nil, errors.Wrap(err, "unable to execute template")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "unable to format generated source")
	}
	return src, nil
}

func main() {
	pkg := flag.String("pkg", "wlp", "package name for the generated file")
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: wlgen [-pkg name] [-o file] protocol.xml")
	}

	raw, err := ioutil.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("unable to read %s: %v", flag.Arg(0), err)
	}
	src, err := generate(*pkg, raw)
	if err != nil {
		log.Fatalf("unable to generate bindings: %v", err)
	}
	if *out == "" {
		fmt.Print(string(src))
		return
	}
	err = ioutil.WriteFile(*out, src, 0644)
	if err != nil {
		log.Fatalf("unable to write %s: %v", *out, err)
	}
}
