package wlp

import (
	"bytes"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/pkg/errors"
)

type constructor func(*Context) Object

var constructors map[string]constructor

// versions holds the highest protocol version these bindings were
// generated for, keyed by interface name. Binds are capped at this
// version regardless of what the server advertises.
var versions map[string]uint32

func register(iface string, version uint32, fn constructor) {
	if constructors == nil {
		constructors = make(map[string]constructor)
		versions = make(map[string]uint32)
	}
	constructors[iface] = fn
	versions[iface] = version
}

type Object interface {
	ID() uint32
	Type() string
	dispatch(opCode uint16, payload []byte, file *os.File)
	setListener(listener interface{}) error
}

type global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// NewContext creates the client-side state for one wayland connection.
func NewContext(conn *net.UnixConn) *Context {
	return &Context{
		mu:          &sync.Mutex{},
		c:           conn,
		buf:         &bytes.Buffer{},
		obj:         make(map[uint32]Object),
		glb:         make(map[uint32]global),
		glbByString: make(map[string][]global),
	}
}

type Context struct {
	*Display
	*Registry

	mu          *sync.Mutex
	c           *net.UnixConn
	buf         *bytes.Buffer
	obj         map[uint32]Object
	glb         map[uint32]global
	glbByString map[string][]global
	last        uint32
	removed     func(iface string, name uint32)
	Err         error
}

func (c *Context) decodeFD(n int, oob []byte) (*os.File, error) {
	if n == 0 {
		return nil, nil
	}
	scms, err := syscall.ParseSocketControlMessage(oob[:n])
	if err != nil {
		return nil, errors.Wrap(err, "ParseSocketControlMessage failed")
	}
	if len(scms) != 1 {
		return nil, errors.Errorf("SocketControlMessage count not 1: %v", len(scms))
	}
	scm := scms[0]
	fds, err := syscall.ParseUnixRights(&scm)
	if err != nil {
		return nil, errors.Wrap(err, "ParseUnixRights failed")
	}
	if len(fds) != 1 {
		return nil, errors.Errorf("recvfd: fd count not 1: %v", len(fds))
	}
	return os.NewFile(uintptr(fds[0]), "wayland-fd"), nil
}

// writable checks, with c.mu held, that a request may be issued
// against the given object id.
func (c *Context) writable(id uint32) error {
	if c.Err != nil {
		return errors.Wrap(c.Err, "global wayland error")
	}
	if _, exists := c.obj[id]; !exists {
		return errors.New("object has been deleted")
	}
	return nil
}

// flush writes the pending request in c.buf to the socket, with
// optional out-of-band fd rights.
func (c *Context) flush(oob []byte) error {
	_, _, err := c.c.WriteMsgUnix(c.buf.Bytes(), oob, nil)
	return errors.Wrap(err, "request write failed")
}

func (c *Context) readLoop() {
	buf := make([]byte, 65535)
	oobBuf := make([]byte, os.Getpagesize())
	j := 0
	for {
		n, oobn, _, _, err := c.c.ReadMsgUnix(buf[j:], oobBuf)
		if err != nil {
			return
		}
		n += j
		j = 0
		file, err := c.decodeFD(oobn, oobBuf)
		if err != nil {
			return
		}

		i := 0
		for i < n {
			if n-i < 8 {
				break
			}
			id, opcode, size := DecodeHeader(buf[i:])
			if n-i < size {
				break
			}
			payload := make([]byte, size-8)
			copy(payload, buf[i+8:i+size])
			i += size
			if obj, tracked := c.obj[id]; tracked {
				obj.dispatch(opcode, payload, file)
			}
			if c.Err != nil {
				// unblock anyone waiting on a sync
				for _, obj := range c.obj {
					cb, ok := obj.(*Callback)
					if !ok {
						continue
					}
					cb.dispatch(opCodeCallbackDone, []byte{0, 0, 0, 0}, nil)
				}
				return
			}
		}
		j = copy(buf, buf[i:n])
	}
}

// Start creates the wl_display and wl_registry objects and launches
// the socket read loop.
func (c *Context) Start() {
	c.Display = newDisplay(c).(*Display)
	c.Display.setListener(c)
	go c.readLoop()
	c.Registry, _ = c.Display.GetRegistry(c)
}

func (c *Context) next() uint32 {
	return atomic.AddUint32(&c.last, 1)
}

// Error implements DisplayListener. A wl_display.error event is fatal
// for the whole connection; it is latched here and every subsequent
// request fails with it.
func (c *Context) Error(objectID uint32, code uint32, message string) {
	c.Err = errors.Errorf("fatal protocol error on object %d (code %d): %s", objectID, code, message)
}

func (c *Context) DeleteID(id uint32) {
	delete(c.obj, id)
}

// Global implements RegistryListener, recording advertised globals so
// they can be bound later by interface name.
func (c *Context) Global(name uint32, iface string, version uint32) {
	glb := global{
		Name:      name,
		Interface: iface,
		Version:   version,
	}
	c.glb[name] = glb
	c.glbByString[iface] = append(c.glbByString[iface], glb)
}

// GlobalRemove implements RegistryListener. The global is pruned from
// the registry maps and the removal hook, if set, is told which
// interface instance went away.
func (c *Context) GlobalRemove(name uint32) {
	glb, exists := c.glb[name]
	if !exists {
		return
	}
	delete(c.glb, name)
	b := c.glbByString[glb.Interface][:0]
	for _, g := range c.glbByString[glb.Interface] {
		if g.Name != name {
			b = append(b, g)
		}
	}
	c.glbByString[glb.Interface] = b
	if c.removed != nil {
		c.removed(glb.Interface, name)
	}
}

// NotifyRemove registers a hook invoked whenever an advertised global
// is withdrawn by the server.
func (c *Context) NotifyRemove(fn func(iface string, name uint32)) {
	c.removed = fn
}

func (c *Context) NumGlobals(ifname string) int {
	return len(c.glbByString[ifname])
}

// GlobalName returns the registry name of the i-th instance of the
// given interface, so callers can correlate removal notifications.
func (c *Context) GlobalName(ifname string, i int) (uint32, error) {
	if i >= len(c.glbByString[ifname]) {
		return 0, errors.Errorf("index %d out of range for interface %s", i, ifname)
	}
	return c.glbByString[ifname][i].Name, nil
}

func (c *Context) BindGlobalIndex(ifname string, listener interface{}, i int) (Object, error) {
	if i >= len(c.glbByString[ifname]) {
		return nil, errors.Errorf("index %d out of range for interface %s", i, ifname)
	}
	glb := c.glbByString[ifname][i]
	cons, known := constructors[ifname]
	if !known {
		return nil, errors.Errorf("no bindings generated for interface %s", ifname)
	}
	version := glb.Version
	if max := versions[ifname]; version > max {
		version = max
	}
	o := cons(c)
	err := o.setListener(listener)
	if err != nil {
		return nil, errors.Wrap(err, "invalid listener")
	}
	err = c.Bind(glb.Name, glb.Interface, version, o.ID())
	if err != nil {
		return nil, errors.Wrapf(err, "unable to bind object: %s", glb.Interface)
	}
	return o, nil
}

// BindGlobal binds the sole instance of the named interface. Use
// BindGlobalIndex for interfaces that may be advertised more than
// once, like wl_output.
func (c *Context) BindGlobal(ifname string, listener interface{}) (Object, error) {
	if len(c.glbByString[ifname]) != 1 {
		return nil, errors.Errorf("BindGlobal requires exactly one instance of %s, have %d",
			ifname, len(c.glbByString[ifname]))
	}
	return c.BindGlobalIndex(ifname, listener, 0)
}
